package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"git.lost.host/meutraa/xylo/internal/game"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type DefaultScorer struct {
	db *sql.DB
}

var _ Scorer = &DefaultScorer{}

type InputsCompact struct {
	Lane  int
	Times []time.Duration
}

// compactInputs groups inputs by lane, keeping their order within a lane.
func compactInputs(inputs []game.Input) []InputsCompact {
	laneCount := 0
	for _, i := range inputs {
		if i.Lane >= laneCount {
			laneCount = i.Lane + 1
		}
	}
	ins := make([]InputsCompact, laneCount)
	for lane := range ins {
		ins[lane] = InputsCompact{Lane: lane, Times: []time.Duration{}}
	}
	for _, i := range inputs {
		if i.Lane < 0 {
			continue
		}
		ins[i.Lane].Times = append(ins[i.Lane].Times, i.Time)
	}
	return ins
}

// uncompactInputs restores the chronological input stream.
func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, i := range inputs {
		for _, t := range i.Times {
			ins = append(ins, game.Input{Lane: i.Lane, Time: t})
		}
	}
	sort.SliceStable(ins, func(a, b int) bool {
		return ins[a].Time < ins[b].Time
	})
	return ins
}

func (s *DefaultScorer) Init(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists scores
	  (
		  id text not null primary key,
		  sum text,
		  ruleset text,
		  played integer,
		  score integer,
		  max_combo integer,
		  perfect integer,
		  good integer,
		  poor integer,
		  miss integer,
		  accuracy real,
		  passed integer,
		  inputs blob
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		db.Close()
		return fmt.Errorf("unable to create score table: %w", err)
	}

	s.db = db
	return nil
}

func (s *DefaultScorer) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

// hashChart identifies a chart by its note layout.
func (s *DefaultScorer) hashChart(c *game.Chart) string {
	h := sha256.New()
	buf := make([]byte, 16)
	for _, n := range c.Notes {
		binary.LittleEndian.PutUint64(buf, uint64(n.Lane))
		binary.LittleEndian.PutUint64(buf[8:], uint64(n.Time))
		h.Write(buf)
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func (s *DefaultScorer) Save(c *game.Chart, r *game.Ruleset, inputs []game.Input, summary Summary) error {
	data, err := json.Marshal(compactInputs(inputs))
	if nil != err {
		return fmt.Errorf("unable to marshal inputs: %w", err)
	}
	_, err = s.db.Exec(
		`insert into scores(id, sum, ruleset, played, score, max_combo, perfect, good, poor, miss, accuracy, passed, inputs)
		values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), s.hashChart(c), r.Name, time.Now().Unix(),
		summary.Score, summary.MaxCombo, summary.Perfect, summary.Good, summary.Poor, summary.Miss,
		summary.Accuracy, summary.Passed, data,
	)
	if nil != err {
		return fmt.Errorf("unable to save score: %w", err)
	}
	return nil
}

func (s *DefaultScorer) Load(c *game.Chart) ([]History, error) {
	histories := []History{}
	rows, err := s.db.Query(
		`select id, sum, ruleset, played, score, max_combo, perfect, good, poor, miss, accuracy, passed, inputs
		from scores where sum = ? order by played`, s.hashChart(c))
	if nil != err {
		return histories, fmt.Errorf("unable to load scores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var h History
		var played int64
		var inputs []byte
		if err := rows.Scan(
			&h.ID, &h.Sum, &h.Ruleset, &played,
			&h.Summary.Score, &h.Summary.MaxCombo,
			&h.Summary.Perfect, &h.Summary.Good, &h.Summary.Poor, &h.Summary.Miss,
			&h.Summary.Accuracy, &h.Summary.Passed, &inputs,
		); nil != err {
			log.Println("unable to read score row", err)
			continue
		}
		var ns []InputsCompact
		if err := json.Unmarshal(inputs, &ns); nil != err {
			log.Println("unable to unmarshal input history", err)
			continue
		}
		h.Played = time.Unix(played, 0)
		h.Inputs = uncompactInputs(ns)
		histories = append(histories, h)
	}
	return histories, rows.Err()
}

// Distance is the signed hit error, positive when hitTime is late.
func (s *DefaultScorer) Distance(n *game.Note, hitTime time.Duration) time.Duration {
	return hitTime - n.Time
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

// ApplyInputToChart matches the input to the closest pending active note in
// its lane. Equal distances prefer the earlier note. It returns nil when the
// lane is out of range or nothing is within the outer window.
func (s *DefaultScorer) ApplyInputToChart(chart *game.Chart, input game.Input, r *game.Ruleset, onHit func(note *game.Note, distance time.Duration)) *game.Note {
	if !r.ValidLane(input.Lane) {
		return nil
	}

	var closestNote *game.Note
	absDistance := time.Duration(1<<63 - 1)
	active, _ := chart.Active()
	for _, note := range active {
		if !note.Pending() || note.Lane != input.Lane {
			continue
		}
		if d := abs(s.Distance(note, input.Time)); d < absDistance {
			absDistance = d
			closestNote = note
		}
	}

	if nil == closestNote || absDistance > r.Outer() {
		return nil
	}
	if closestNote.TryHit(input.Time, r) == game.Unset {
		return nil
	}
	if nil != onHit {
		onHit(closestNote, s.Distance(closestNote, input.Time))
	}
	return closestNote
}

// Replay runs recorded inputs against a fresh copy of the chart and returns
// the summary the run would have produced.
func (s *DefaultScorer) Replay(chart *game.Chart, r *game.Ruleset, schedule game.Schedule, inputs []game.Input) Summary {
	c := chart.Playable(r)
	state := NewState()
	onMiss := func(*game.Note) { state.Miss(r) }
	for _, input := range inputs {
		c.Step(input.Time, schedule, r, onMiss)
		s.ApplyInputToChart(c, input, r, func(note *game.Note, distance time.Duration) {
			state.Hit(note.Judgement, r, distance)
		})
	}
	c.Step(c.Duration+schedule.Grace+r.Outer()+time.Nanosecond, schedule, r, onMiss)
	return state.Summary()
}
