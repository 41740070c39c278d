package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users           map[model.UserID]*model.User
	registeredUsers map[string]*model.RegisteredUser // keyed by username
	rooms           map[model.RoomID]*model.Room
	roomsBySession  map[model.SessionID]model.RoomID

	lastUserID model.UserID
	lastRoomID model.RoomID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:           make(map[model.UserID]*model.User),
		registeredUsers: make(map[string]*model.RegisteredUser),
		rooms:           make(map[model.RoomID]*model.Room),
		roomsBySession:  make(map[model.SessionID]model.RoomID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) NextUserID(ctx context.Context) (model.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUserID++
	return s.lastUserID, nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// Registered user operations

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *ru
	s.registeredUsers[ru.Username] = &r
	return nil
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ru, ok := s.registeredUsers[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	r := *ru
	return &r, nil
}

// Room operations

func (s *Storage) NextRoomID(ctx context.Context) (model.RoomID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRoomID++
	return s.lastRoomID, nil
}

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *room
	s.rooms[room.ID] = &r
	if room.SessionID != "" {
		s.roomsBySession[room.SessionID] = room.ID
	}
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getRoomLocked(id)
}

func (s *Storage) GetRoomBySession(ctx context.Context, sessionID model.SessionID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.roomsBySession[sessionID]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return s.getRoomLocked(id)
}

func (s *Storage) getRoomLocked(id model.RoomID) (*model.Room, error) {
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	r := *room
	return &r, nil
}

func (s *Storage) ListRooms(ctx context.Context, state model.RoomState, offset, limit int) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*model.Room
	for _, room := range s.rooms {
		if room.State == state {
			r := *room
			matched = append(matched, &r)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if offset >= len(matched) || limit <= 0 {
		return []*model.Room{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *Storage) CountRooms(ctx context.Context, state model.RoomState) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, room := range s.rooms {
		if room.State == state {
			n++
		}
	}
	return n, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[id]; ok {
		delete(s.roomsBySession, room.SessionID)
		delete(s.rooms, id)
	}
	return nil
}
