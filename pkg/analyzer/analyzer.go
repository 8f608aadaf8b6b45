// Package analyzer evaluates crime snapshots against the threshold
// registry. All queries are pure: they take the current snapshot and a
// consistent view of the registry, mutate nothing, and return plain data
// for the CLI to render.
package analyzer

import (
	"sort"

	"github.com/tornwatch/tornwatch/pkg/crimes"
	"github.com/tornwatch/tornwatch/pkg/thresholds"
)

// Engine answers CPR queries over a snapshot using the registry's
// current minimums.
type Engine struct {
	reg *thresholds.Registry
}

func New(reg *thresholds.Registry) *Engine {
	return &Engine{reg: reg}
}

// FailingSlot is one occupied slot whose holder is below the required
// CPR for the crime's difficulty.
type FailingSlot struct {
	UserID      int64
	Position    string
	CurrentCPR  int
	RequiredCPR int
	Deficit     int
}

// CrimeReport lists the failing slots of a single active crime.
type CrimeReport struct {
	CrimeID     int64
	CrimeName   string
	Difficulty  int
	Status      crimes.Status
	RequiredCPR int
	Failing     []FailingSlot
}

// Report aggregates an EvaluateAll pass over the snapshot.
type Report struct {
	TotalCrimes      int
	ActiveCrimes     int
	CrimesWithLowCPR []CrimeReport
}

// LevelSummary aggregates active crimes and slots at one difficulty
// level. Levels with no crimes still get a row so callers can tell "no
// data" apart from "no issues".
type LevelSummary struct {
	Level         int
	Name          string
	RequiredCPR   int
	ActiveCrimes  int
	OccupiedSlots int
	FailingSlots  int
}

// PositionStats counts a user's slots for one position label.
type PositionStats struct {
	Position     string
	TotalSlots   int
	FailingSlots int
}

// UserCrime is one failing slot of a user, with the crime it belongs to.
type UserCrime struct {
	CrimeID     int64
	CrimeName   string
	Position    string
	CurrentCPR  int
	RequiredCPR int
	Deficit     int
}

// UserReport aggregates one user's slots across every active crime.
type UserReport struct {
	UserID       int64
	TotalSlots   int
	FailingSlots int
	Positions    []PositionStats
	Crimes       []UserCrime
}

// MeetsRequirement reports whether a CPR value satisfies the minimum for
// a difficulty level.
func (e *Engine) MeetsRequirement(cpr, level int) bool {
	return cpr >= e.reg.Get(level)
}

// EvaluateCrime returns the occupied slots of a crime whose holders fall
// below the required CPR. The caller decides whether the crime is worth
// evaluating; inactive crimes are normally skipped upstream.
func (e *Engine) EvaluateCrime(c crimes.Crime) []FailingSlot {
	return evaluateCrime(c, e.reg.View())
}

func evaluateCrime(c crimes.Crime, v thresholds.View) []FailingSlot {
	required := v.Get(c.Difficulty)
	var failing []FailingSlot
	for _, slot := range c.Slots {
		if !slot.Occupied() {
			continue
		}
		if slot.CPR >= required {
			continue
		}
		failing = append(failing, FailingSlot{
			UserID:      slot.UserID,
			Position:    slot.Position,
			CurrentCPR:  slot.CPR,
			RequiredCPR: required,
			Deficit:     required - slot.CPR,
		})
	}
	return failing
}

// EvaluateAll runs EvaluateCrime over every active crime in the
// snapshot. Crimes in any other status are skipped entirely: not
// evaluated and not counted as active. Active crimes without failures
// count toward ActiveCrimes but do not appear in CrimesWithLowCPR.
func (e *Engine) EvaluateAll(snap *crimes.Snapshot) Report {
	v := e.reg.View()
	report := Report{TotalCrimes: len(snap.Crimes)}
	for _, c := range snap.Crimes {
		if !c.Status.IsActive() {
			continue
		}
		report.ActiveCrimes++
		failing := evaluateCrime(c, v)
		if len(failing) == 0 {
			continue
		}
		report.CrimesWithLowCPR = append(report.CrimesWithLowCPR, CrimeReport{
			CrimeID:     c.ID,
			CrimeName:   c.Name,
			Difficulty:  c.Difficulty,
			Status:      c.Status,
			RequiredCPR: v.Get(c.Difficulty),
			Failing:     failing,
		})
	}
	return report
}

// SummaryByLevel returns one row per registered difficulty level in
// ascending order, counting active crimes and occupied/failing slots at
// that level. Crimes at unregistered difficulties are ignored.
func (e *Engine) SummaryByLevel(snap *crimes.Snapshot) []LevelSummary {
	v := e.reg.View()
	byLevel := make(map[int]*LevelSummary)
	order := v.Levels()
	for _, level := range order {
		byLevel[level] = &LevelSummary{
			Level:       level,
			Name:        v.Name(level),
			RequiredCPR: v.Get(level),
		}
	}

	for _, c := range snap.Crimes {
		if !c.Status.IsActive() {
			continue
		}
		row, ok := byLevel[c.Difficulty]
		if !ok {
			continue
		}
		row.ActiveCrimes++
		for _, slot := range c.Slots {
			if !slot.Occupied() {
				continue
			}
			row.OccupiedSlots++
			if slot.CPR < row.RequiredCPR {
				row.FailingSlots++
			}
		}
	}

	out := make([]LevelSummary, 0, len(order))
	for _, level := range order {
		out = append(out, *byLevel[level])
	}
	return out
}

// ProblematicUsers groups failing slots by user across every active
// crime. TotalSlots counts all occupied slots the user holds, including
// passing ones; users with no failing slots are excluded. Results are
// ordered by failing slot count descending, ties keeping the order the
// users were first seen in the snapshot, so identical input always
// yields identical output.
func (e *Engine) ProblematicUsers(snap *crimes.Snapshot) []UserReport {
	v := e.reg.View()
	index := make(map[int64]int)
	var users []UserReport

	for _, c := range snap.Crimes {
		if !c.Status.IsActive() {
			continue
		}
		required := v.Get(c.Difficulty)
		for _, slot := range c.Slots {
			if !slot.Occupied() {
				continue
			}
			i, seen := index[slot.UserID]
			if !seen {
				i = len(users)
				index[slot.UserID] = i
				users = append(users, UserReport{UserID: slot.UserID})
			}
			u := &users[i]
			u.TotalSlots++
			p := positionStats(u, slot.Position)
			p.TotalSlots++

			if slot.CPR >= required {
				continue
			}
			u.FailingSlots++
			p.FailingSlots++
			u.Crimes = append(u.Crimes, UserCrime{
				CrimeID:     c.ID,
				CrimeName:   c.Name,
				Position:    slot.Position,
				CurrentCPR:  slot.CPR,
				RequiredCPR: required,
				Deficit:     required - slot.CPR,
			})
		}
	}

	out := make([]UserReport, 0, len(users))
	for _, u := range users {
		if u.FailingSlots > 0 {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FailingSlots > out[j].FailingSlots
	})
	return out
}

// positionStats finds or appends the user's stats row for a position,
// preserving first-encounter order.
func positionStats(u *UserReport, position string) *PositionStats {
	for i := range u.Positions {
		if u.Positions[i].Position == position {
			return &u.Positions[i]
		}
	}
	u.Positions = append(u.Positions, PositionStats{Position: position})
	return &u.Positions[len(u.Positions)-1]
}
