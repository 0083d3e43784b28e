package repository

import "database/sql"

// Store groups the project and concept repositories over one pool.
type Store struct {
	*ProjectRepository
	*ConceptRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		ProjectRepository: NewProjectRepository(db),
		ConceptRepository: NewConceptRepository(db),
	}
}
