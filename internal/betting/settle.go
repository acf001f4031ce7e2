package betting

import (
	"fmt"
	"maps"
	"slices"
)

// OutcomeKind classifies what happened to a class's bet in a round
type OutcomeKind int

const (
	NoBet OutcomeKind = iota
	Won
	Lost
)

func (k OutcomeKind) String() string {
	switch k {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "no_bet"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *OutcomeKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "won":
		*k = Won
	case "lost":
		*k = Lost
	case "no_bet":
		*k = NoBet
	default:
		return fmt.Errorf("unknown outcome kind %q", text)
	}
	return nil
}

// Outcome is the settlement result for one class.
// Amount is the wager won or lost and is 0 for NoBet.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Amount int         `json:"amount"`
}

// Delta returns the change in points this outcome causes
func (o Outcome) Delta() int {
	switch o.Kind {
	case Won:
		return o.Amount
	case Lost:
		return -o.Amount
	default:
		return 0
	}
}

// Result holds the points after a round and the outcome for every class
type Result struct {
	Points   map[string]int     `json:"points"`
	Outcomes map[string]Outcome `json:"outcomes"`
}

// Settle computes the points after a round. Each class that wagered on its
// category's winner gains the wager, each class that wagered on another
// class loses it, and abstentions are unchanged. Gains and losses are
// independent per class; nothing is pooled.
//
// All inputs are validated before anything is computed and none of them are
// modified.
func Settle(reg *Registry, current map[string]int, ledger *Ledger, winners map[string]string) (*Result, error) {
	if ledger == nil {
		return nil, fmt.Errorf("settle: nil ledger")
	}

	for _, category := range reg.AllCategories() {
		winner, ok := winners[category]
		if !ok || winner == "" {
			return nil, &MissingWinnerError{Category: category}
		}
		if !reg.IsMember(category, winner) {
			return nil, &InvalidWinnerError{Category: category, Winner: winner}
		}
	}
	for _, category := range slices.Sorted(maps.Keys(winners)) {
		if _, err := reg.MembersOf(category); err != nil {
			return nil, &InvalidWinnerError{Category: category, Winner: winners[category]}
		}
	}

	var missing []string
	for _, class := range reg.Classes() {
		if _, ok := ledger.Bet(class); !ok {
			return nil, &BetValidationError{Class: class, Reason: ErrMissingBet}
		}
		if _, ok := current[class]; !ok {
			missing = append(missing, class)
		}
	}
	if len(missing) > 0 {
		return nil, &IntegrityError{Missing: missing}
	}

	result := &Result{
		Points:   make(map[string]int, len(current)),
		Outcomes: make(map[string]Outcome, len(current)),
	}
	for class, points := range current {
		result.Points[class] = points
	}

	for _, cat := range reg.categories {
		winner := winners[cat.Name]
		for _, class := range cat.Classes {
			bet, _ := ledger.Bet(class)
			outcome := Outcome{Kind: NoBet}
			switch {
			case bet.Amount == 0:
			case bet.Target == winner:
				outcome = Outcome{Kind: Won, Amount: bet.Amount}
			default:
				outcome = Outcome{Kind: Lost, Amount: bet.Amount}
			}

			result.Points[class] = current[class] + outcome.Delta()
			result.Outcomes[class] = outcome
		}
	}

	return result, nil
}
