package betting

import "fmt"

// DefaultMaxBet is the largest wager a class may place in one round
const DefaultMaxBet = 5

// Bet is one class's wager for a round. Amount 0 is an abstention.
type Bet struct {
	Class  string `json:"class"`
	Target string `json:"target"`
	Amount int    `json:"amount"`
}

// Ledger is a validated set of bets, exactly one per registry class
type Ledger struct {
	bets map[string]Bet
}

// NewLedger validates bets against the registry and the maximum wager.
// The target of an abstention (amount 0) is ignored and may be empty.
func NewLedger(reg *Registry, maxBet int, bets []Bet) (*Ledger, error) {
	l := &Ledger{bets: make(map[string]Bet, len(bets))}

	for _, bet := range bets {
		category, err := reg.CategoryOf(bet.Class)
		if err != nil {
			return nil, err
		}
		if _, dup := l.bets[bet.Class]; dup {
			return nil, &BetValidationError{Class: bet.Class, Reason: ErrDuplicateBet}
		}
		if bet.Amount < 0 || bet.Amount > maxBet {
			return nil, &BetValidationError{
				Class:  bet.Class,
				Reason: ErrAmountOutOfRange,
				Detail: fmt.Sprintf("%d not in [0, %d]", bet.Amount, maxBet),
			}
		}
		if bet.Amount > 0 && !reg.IsMember(category, bet.Target) {
			return nil, &BetValidationError{
				Class:  bet.Class,
				Reason: ErrCrossCategoryTarget,
				Detail: fmt.Sprintf("%q is not in %s", bet.Target, category),
			}
		}
		l.bets[bet.Class] = bet
	}

	for _, class := range reg.Classes() {
		if _, ok := l.bets[class]; !ok {
			return nil, &BetValidationError{Class: class, Reason: ErrMissingBet}
		}
	}

	return l, nil
}

// Bet returns the bet placed by class
func (l *Ledger) Bet(class string) (Bet, bool) {
	bet, ok := l.bets[class]
	return bet, ok
}

func (l *Ledger) Len() int {
	return len(l.bets)
}
