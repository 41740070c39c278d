package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// getJSON loads key into v, mapping a missing key to notFound
func (s *Storage) getJSON(ctx context.Context, key string, v any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// User operations

func (s *Storage) NextUserID(ctx context.Context) (model.UserID, error) {
	n, err := s.client.Incr(ctx, userSeqKey()).Result()
	if err != nil {
		return 0, err
	}
	return model.UserID(n), nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if user.IsGuest {
		ttl = s.cfg.GuestUserTTL
	}
	return s.client.Set(ctx, userKey(user.ID), data, ttl).Err()
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.getJSON(ctx, userKey(id), &user, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

// Registered user operations

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	data, err := json.Marshal(ru)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, registeredUserKey(ru.UserID), data, 0)
	pipe.Set(ctx, usernameIndexKey(ru.Username), ru.UserID.String(), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	id, err := model.ParseUserID(idStr)
	if err != nil {
		return nil, err
	}

	var ru model.RegisteredUser
	if err := s.getJSON(ctx, registeredUserKey(id), &ru, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &ru, nil
}

// Room operations

func (s *Storage) NextRoomID(ctx context.Context) (model.RoomID, error) {
	n, err := s.client.Incr(ctx, roomSeqKey()).Result()
	if err != nil {
		return 0, err
	}
	return model.RoomID(n), nil
}

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	member := strconv.FormatInt(int64(room.ID), 10)

	// Room body, session index and state index change together
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, roomKey(room.ID), data, s.cfg.RoomTTL)
	if room.SessionID != "" {
		pipe.Set(ctx, roomBySessionKey(room.SessionID), member, s.cfg.RoomTTL)
	}
	for _, state := range roomStates {
		if state != room.State {
			pipe.ZRem(ctx, roomsByStateKey(state), member)
		}
	}
	pipe.ZAdd(ctx, roomsByStateKey(room.State), redis.Z{Score: float64(room.ID), Member: member})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	var room model.Room
	if err := s.getJSON(ctx, roomKey(id), &room, model.ErrRoomNotFound); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) GetRoomBySession(ctx context.Context, sessionID model.SessionID) (*model.Room, error) {
	idStr, err := s.client.Get(ctx, roomBySessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, err
	}
	return s.GetRoom(ctx, model.RoomID(id))
}

func (s *Storage) ListRooms(ctx context.Context, state model.RoomState, offset, limit int) ([]*model.Room, error) {
	rooms := []*model.Room{}
	if limit <= 0 || offset < 0 {
		return rooms, nil
	}

	members, err := s.client.ZRange(ctx, roomsByStateKey(state), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return rooms, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, err
		}
		keys[i] = roomKey(model.RoomID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	var stale []any
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// Room body expired; drop it from the index
			stale = append(stale, members[i])
			continue
		}
		var room model.Room
		if err := json.Unmarshal([]byte(str), &room); err != nil {
			return nil, err
		}
		rooms = append(rooms, &room)
	}
	if len(stale) > 0 {
		_ = s.client.ZRem(ctx, roomsByStateKey(state), stale...).Err()
	}
	return rooms, nil
}

func (s *Storage) CountRooms(ctx context.Context, state model.RoomState) (int, error) {
	n, err := s.client.ZCard(ctx, roomsByStateKey(state)).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	room, err := s.GetRoom(ctx, id)
	if err != nil && !errors.Is(err, model.ErrRoomNotFound) {
		return err
	}
	member := strconv.FormatInt(int64(id), 10)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, roomKey(id))
	if room != nil && room.SessionID != "" {
		pipe.Del(ctx, roomBySessionKey(room.SessionID))
	}
	for _, state := range roomStates {
		pipe.ZRem(ctx, roomsByStateKey(state), member)
	}
	_, err = pipe.Exec(ctx)
	return err
}
