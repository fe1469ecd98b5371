package render

import "fmt"

// Phase is a stage of the search lifecycle.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseSearching Phase = "searching"
	PhaseDisplayed Phase = "displayed"
	PhaseError     Phase = "error"
)

// Lifecycle tracks one client's search session through
// Idle → Searching → Displayed(page) → Idle. Page turns re-enter Displayed
// without passing through Searching. A failed attempt lands in Error, which
// never blocks starting a fresh search.
type Lifecycle struct {
	phase Phase
	page  int
}

// NewLifecycle returns a lifecycle in the Idle phase.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{phase: PhaseIdle}
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	return l.phase
}

// Page returns the displayed page, or 0 outside Displayed.
func (l *Lifecycle) Page() int {
	if l.phase != PhaseDisplayed {
		return 0
	}
	return l.page
}

// StartSearch begins a new search. Legal from any phase except Searching:
// a new submission supersedes displayed results or a prior error.
func (l *Lifecycle) StartSearch() error {
	if l.phase == PhaseSearching {
		return fmt.Errorf("search already in progress")
	}
	l.phase = PhaseSearching
	l.page = 0
	return nil
}

// Display completes a search attempt with results on the given page.
func (l *Lifecycle) Display(page int) error {
	if l.phase != PhaseSearching {
		return fmt.Errorf("cannot display results from phase %s", l.phase)
	}
	if page < 1 {
		page = 1
	}
	l.phase = PhaseDisplayed
	l.page = page
	return nil
}

// GoToPage navigates within displayed results, without a new search.
func (l *Lifecycle) GoToPage(page int) error {
	if l.phase != PhaseDisplayed {
		return fmt.Errorf("cannot change page from phase %s", l.phase)
	}
	if page < 1 {
		return fmt.Errorf("page must be positive")
	}
	l.page = page
	return nil
}

// Fail marks the in-flight search attempt as failed.
func (l *Lifecycle) Fail() error {
	if l.phase != PhaseSearching {
		return fmt.Errorf("cannot fail from phase %s", l.phase)
	}
	l.phase = PhaseError
	l.page = 0
	return nil
}

// Clear resets to Idle (explicit start-over).
func (l *Lifecycle) Clear() {
	l.phase = PhaseIdle
	l.page = 0
}
