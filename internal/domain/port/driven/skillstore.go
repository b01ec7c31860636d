package driven

import "github.com/accountingops/credvault/internal/domain/model"

// SkillStore is the driven port for the skill-document directory that sits
// alongside the credential store. Documents are whole files keyed by path;
// there are no transactional guarantees. Presentation layers consume this
// port directly; no implementation ships with the store itself.
type SkillStore interface {
	// Skills enumerates every document in the directory.
	Skills() ([]model.SkillDocument, error)

	// SaveSkill writes a whole document, replacing any prior contents.
	SaveSkill(doc model.SkillDocument) error

	// RemoveSkill deletes the document at the given path.
	RemoveSkill(path string) error

	// Reload re-reads the directory listing.
	Reload() error
}
