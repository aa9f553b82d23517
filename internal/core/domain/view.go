package domain

// Tab identifies a top-level workspace view.
type Tab string

const (
	// TabUpload is the upload pipeline view.
	TabUpload Tab = "upload"
	// TabBrowse is the file browser.
	TabBrowse Tab = "browse"
	// TabAdmin is the administration panel.
	TabAdmin Tab = "admin"
)

// String returns the tab name.
func (t Tab) String() string {
	return string(t)
}

// ParseTab parses a tab name.
func ParseTab(s string) (Tab, bool) {
	switch Tab(s) {
	case TabUpload, TabBrowse, TabAdmin:
		return Tab(s), true
	}
	return "", false
}

// Tabs returns the tabs reachable with the given capabilities, in display order.
func (c Capabilities) Tabs() []Tab {
	tabs := make([]Tab, 0, 3)
	if c.CanUpload() {
		tabs = append(tabs, TabUpload)
	}
	tabs = append(tabs, TabBrowse)
	if c.CanAdminister() {
		tabs = append(tabs, TabAdmin)
	}
	return tabs
}

// DefaultTab is upload for contributors and browse otherwise.
func (c Capabilities) DefaultTab() Tab {
	if c.CanUpload() {
		return TabUpload
	}
	return TabBrowse
}

// Allows reports whether the tab is reachable.
func (c Capabilities) Allows(t Tab) bool {
	switch t {
	case TabUpload:
		return c.CanUpload()
	case TabBrowse:
		return true
	case TabAdmin:
		return c.CanAdminister()
	}
	return false
}
