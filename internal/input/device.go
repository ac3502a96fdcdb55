package input

import (
	"encoding/binary"
	"errors"
	"io"
	"log"
	"os"
	"sync"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey    = 0x01
	keyEsc   = 1
	keySpace = 57
)

// keyEvent is struct input_event on 64-bit linux.
type keyEvent struct {
	Sec, Usec int64
	Type      uint16
	Code      uint16
	Value     int32
}

var keyRunes = map[uint16]rune{
	16: 'q', 17: 'w', 18: 'e', 19: 'r', 20: 't', 21: 'y', 22: 'u', 23: 'i', 24: 'o', 25: 'p',
	30: 'a', 31: 's', 32: 'd', 33: 'f', 34: 'g', 35: 'h', 36: 'j', 37: 'k', 38: 'l',
	44: 'z', 45: 'x', 46: 'c', 47: 'v', 48: 'b', 49: 'n', 50: 'm',
}

// DeviceSource reads an evdev keyboard, which reports real key-ups.
type DeviceSource struct {
	file   *os.File
	events chan Event
	once   sync.Once
}

func NewDeviceSource(path string, bind Binder) (*DeviceSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s := &DeviceSource{file: file, events: make(chan Event, 128)}
	go func() {
		defer close(s.events)
		if err := readDevice(file, bind, s.events); nil != err && !errors.Is(err, os.ErrClosed) {
			log.Println(err, "unable to read keyboard input")
		}
	}()
	return s, nil
}

func readDevice(r io.Reader, bind Binder, events chan<- Event) error {
	var ev keyEvent
	for {
		err := binary.Read(r, binary.LittleEndian, &ev)
		if errors.Is(err, io.EOF) {
			return nil
		} else if nil != err {
			return err
		}
		if e, ok := deviceEvent(ev, bind); ok {
			events <- e
		}
	}
}

func deviceEvent(ev keyEvent, bind Binder) (Event, bool) {
	// Value 2 is autorepeat
	if ev.Type != evKey || ev.Value > 1 {
		return Event{}, false
	}
	down := ev.Value == 1
	switch ev.Code {
	case keyEsc:
		return Event{Action: QuitAction, Down: true}, down
	case keySpace:
		return Event{Action: PauseAction, Down: true}, down
	}
	r, ok := keyRunes[ev.Code]
	if !ok {
		return Event{}, false
	}
	return action(r, down, bind)
}

func (s *DeviceSource) Events() <-chan Event {
	return s.events
}

func (s *DeviceSource) Close() error {
	var err error
	s.once.Do(func() {
		err = s.file.Close()
	})
	return err
}
