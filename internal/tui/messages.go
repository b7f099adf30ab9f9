package tui

import "github.com/mmcdole/reel/internal/service"

// Message types for the TUI

// dispatchMsg carries a loader completion onto the update loop
type dispatchMsg struct {
	fn func()
}

// OpenDetailsMsg opens the details screen for the row's movie
type OpenDetailsMsg struct {
	Controller *service.CellController
}

// CloseDetailsMsg returns from the details screen to the list
type CloseDetailsMsg struct{}

// SearchMsg starts a search for Query
type SearchMsg struct {
	Query string
}

// PageOpenedMsg reports the result of opening a movie page
type PageOpenedMsg struct {
	Title string
	Err   error
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}
