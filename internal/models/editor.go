package models

// Editor is a member of the editing team. Editors are seeded from
// configuration and never created or removed at runtime.
type Editor struct {
	ID        string `json:"id" mapstructure:"id"`
	Name      string `json:"name" mapstructure:"name"`
	AvatarURL string `json:"avatarUrl" mapstructure:"avatar_url"`
}

// FindEditor returns the editor with the given ID from the roster.
func FindEditor(editors []Editor, id string) (Editor, bool) {
	for _, e := range editors {
		if e.ID == id {
			return e, true
		}
	}
	return Editor{}, false
}
