package input

import (
	"log"
	"sync"
	"time"

	"github.com/eiannone/keyboard"
)

// A terminal only reports key-downs, so a release is synthesised after
// releaseDelay.
const releaseDelay = 120 * time.Millisecond

type KeyboardSource struct {
	events chan Event
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

func NewKeyboardSource(bind Binder) (*KeyboardSource, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, err
	}
	s := &KeyboardSource{
		events: make(chan Event, 128),
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run(keys, bind)
	return s, nil
}

func (s *KeyboardSource) run(keys <-chan keyboard.KeyEvent, bind Binder) {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case key, ok := <-keys:
			if !ok {
				return
			}
			if nil != key.Err {
				log.Println("unable to read key", key.Err)
				continue
			}
			ev, ok := translate(key, bind)
			if !ok {
				continue
			}
			s.send(ev)
			if ev.Action == LaneAction {
				release := Event{Action: LaneAction, Lane: ev.Lane}
				time.AfterFunc(releaseDelay, func() { s.send(release) })
			}
		}
	}
}

func (s *KeyboardSource) send(ev Event) {
	select {
	case <-s.done:
	case s.events <- ev:
	}
}

func translate(key keyboard.KeyEvent, bind Binder) (Event, bool) {
	switch key.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return Event{Action: QuitAction, Down: true}, true
	case keyboard.KeySpace:
		return Event{Action: PauseAction, Down: true}, true
	}
	if key.Rune == 0 {
		return Event{}, false
	}
	return action(key.Rune, true, bind)
}

func (s *KeyboardSource) Events() <-chan Event {
	return s.events
}

func (s *KeyboardSource) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = keyboard.Close()
		s.wg.Wait()
	})
	return err
}
