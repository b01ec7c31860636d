package model

// SkillDocument is one document in the skill directory: a whole file keyed
// by its path, with an optional description pulled from the document body.
type SkillDocument struct {
	Name        string
	Path        string
	Description string
	Contents    string
}
