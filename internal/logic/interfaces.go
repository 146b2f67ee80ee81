package logic

import "liftdesk/internal/domain"

// ItemStore holds the most recently loaded collection of each screen.
// A load replaces a screen's items wholesale.
type ItemStore interface {
	Items(screen string) []domain.Item
	Replace(screen string, items []domain.Item)
	Clear(screen string)
	Screens() []string
}
