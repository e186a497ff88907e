package chat

import (
	"sort"
	"sync"
	"time"
)

// DefaultRoomID is the well-known room every registered user is a member of.
// It is created at startup and always exists.
const DefaultRoomID = "general"

type room struct {
	id          string
	displayName string
	isGroup     bool
	createdAt   time.Time
	members     map[string]string // userID -> display name snapshot
}

// RoomDirectory maps room ids to metadata and persistent membership.
// Rooms are created lazily on first reference: any roomId a client supplies
// silently becomes a valid room. All methods are safe for concurrent use.
type RoomDirectory struct {
	mu              sync.RWMutex
	rooms           map[string]*room
	defaultRoomName string
}

func NewRoomDirectory(defaultRoomName string) *RoomDirectory {
	if defaultRoomName == "" {
		defaultRoomName = "General"
	}
	return &RoomDirectory{
		rooms:           make(map[string]*room),
		defaultRoomName: defaultRoomName,
	}
}

// EnsureDefaultRoom creates the well-known room if it doesn't exist yet.
// Idempotent; called once during startup.
func (d *RoomDirectory) EnsureDefaultRoom() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(DefaultRoomID, d.defaultRoomName, true)
}

// GetOrCreate returns the room, lazily creating it with default metadata
// (display name = room id, group room) on first reference.
func (d *RoomDirectory) GetOrCreate(roomID string) RoomInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return snapshotRoom(d.ensureLocked(roomID, roomID, true))
}

// Get returns a snapshot of the room without creating it.
func (d *RoomDirectory) Get(roomID string) (RoomInfo, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	r, ok := d.rooms[roomID]
	if !ok {
		return RoomInfo{}, false
	}
	return snapshotRoom(r), true
}

// AddMember inserts the user into the room's member set, creating the room
// if needed. A user already present keeps their original display-name
// snapshot, so reconnects never produce duplicate presence entries.
func (d *RoomDirectory) AddMember(roomID, userID, displayName string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r := d.ensureLocked(roomID, roomID, true)
	if _, ok := r.members[userID]; ok {
		return
	}
	r.members[userID] = displayName
}

// RemoveMember removes the user from the room's member set; no-op if the
// room or the membership doesn't exist.
func (d *RoomDirectory) RemoveMember(roomID, userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if r, ok := d.rooms[roomID]; ok {
		delete(r.members, userID)
	}
}

// List returns snapshots of every room, oldest first.
func (d *RoomDirectory) List() []RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	infos := make([]RoomInfo, 0, len(d.rooms))
	for _, r := range d.rooms {
		infos = append(infos, snapshotRoom(r))
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Count returns the number of rooms, the always-present default included.
func (d *RoomDirectory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}

func (d *RoomDirectory) ensureLocked(roomID, displayName string, isGroup bool) *room {
	if r, ok := d.rooms[roomID]; ok {
		return r
	}
	r := &room{
		id:          roomID,
		displayName: displayName,
		isGroup:     isGroup,
		createdAt:   time.Now(),
		members:     make(map[string]string),
	}
	d.rooms[roomID] = r
	return r
}

func snapshotRoom(r *room) RoomInfo {
	members := make([]Member, 0, len(r.members))
	for userID, name := range r.members {
		members = append(members, Member{UserID: userID, DisplayName: name})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })

	return RoomInfo{
		ID:          r.id,
		DisplayName: r.displayName,
		IsGroup:     r.isGroup,
		CreatedAt:   r.createdAt,
		Members:     members,
	}
}
