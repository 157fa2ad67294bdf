package menu

// Event is a browser lifecycle event consumed by Synchronizer.Run.
type Event interface {
	isEvent()
}

// TabUpdated reports a change of a tab's loading status or URL.
type TabUpdated struct {
	TabID  int
	Status string
	Tab    Tab
}

// TabActivated reports that a tab became the active one.
type TabActivated struct {
	TabID int
}

// ConfigImported reports that the configuration was replaced.
type ConfigImported struct{}

// MenuClicked reports a click on a menu item while tab was shown.
type MenuClicked struct {
	ItemID string
	Tab    Tab
}

func (TabUpdated) isEvent()     {}
func (TabActivated) isEvent()   {}
func (ConfigImported) isEvent() {}
func (MenuClicked) isEvent()    {}
