package menu

type CreatedEvent struct {
	AppID  string
	Result Menu
}

type UpdatedEvent struct {
	AppID  string
	Data   Menu
	Result Menu
}

// Reparented reports whether the update moved the menu under another parent.
func (e UpdatedEvent) Reparented() bool {
	return e.Data.ParentID != e.Result.ParentID
}
