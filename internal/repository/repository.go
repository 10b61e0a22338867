package repository

import "code_arena/internal/storage"

type Repositories struct {
	Match MatchRepository
	Chat  ChatRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		Match: NewMatchRepository(db),
		Chat:  NewChatRepository(db),
	}
}
