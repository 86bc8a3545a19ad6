package model

import "time"

// OperationalStatus is a staff-set override that takes the room out of the
// occupancy-derived status.  The empty value means no override.
type OperationalStatus string

const (
	OpNone                OperationalStatus = ""
	OpCleaningRequested   OperationalStatus = "cleaning_requested"
	OpCleaningInProgress  OperationalStatus = "cleaning_in_progress"
	OpCleaningComplete    OperationalStatus = "cleaning_complete"
	OpInspectionRequested OperationalStatus = "inspection_requested"
	OpUnderInspection     OperationalStatus = "under_inspection"
	OpInspectionComplete  OperationalStatus = "inspection_complete"
	OpSalesStopped        OperationalStatus = "sales_stopped"
	OpReservationComplete OperationalStatus = "reservation_complete"
)

// Valid reports whether o is the empty override or a known value.
func (o OperationalStatus) Valid() bool {
	switch o {
	case OpNone, OpCleaningRequested, OpCleaningInProgress, OpCleaningComplete,
		OpInspectionRequested, OpUnderInspection, OpInspectionComplete,
		OpSalesStopped, OpReservationComplete:
		return true
	}
	return false
}

// Display toggles which descriptive attributes are shown to outside
// viewers.  Each flag is independent.
type Display struct {
	ShowFloor    bool `json:"showFloor"`
	ShowBuilding bool `json:"showBuilding"`
	ShowName     bool `json:"showName"`
	ShowType     bool `json:"showType"`
}

// Room represents a rentable room.  This struct corresponds to a row in
// the `rooms` table plus its `room_rate_overrides` rows.
//
// Fields:
//	ID                – primary key identifier.
//	Floor, Building   – location attributes.
//	Name, Type        – descriptive attributes.
//	Display           – external display toggles.
//	Blocked           – per stay type sales limit; true forbids new bookings.
//	Overrides         – per stay type rates that shadow the global ones.
//	OperationalStatus – staff override of the derived status.
//	Memo              – free text.
type Room struct {
	ID                uint64                 `json:"id"`                // rooms.id
	Floor             string                 `json:"floor"`             // rooms.floor
	Building          string                 `json:"building"`          // rooms.building
	Name              string                 `json:"name"`              // rooms.name
	Type              string                 `json:"type"`              // rooms.room_type
	Display           Display                `json:"display"`           // rooms.show_*
	Blocked           map[StayType]bool      `json:"blocked"`           // rooms.*_blocked
	Overrides         map[StayType]RateTable `json:"overrides"`         // room_rate_overrides
	OperationalStatus OperationalStatus      `json:"operationalStatus"` // rooms.operational_status (nullable)
	Memo              string                 `json:"memo"`              // rooms.memo
	CreatedAt         time.Time              `json:"createdAt"`         // rooms.created_at
	UpdatedAt         time.Time              `json:"updatedAt"`         // rooms.updated_at
}

// IsBlocked reports whether sales of st are stopped for this room.
func (r Room) IsBlocked(st StayType) bool { return r.Blocked[st] }

// Override returns the per-room rate for (st, tier), zero when unset.
func (r Room) Override(st StayType, tier RateTier) int64 {
	if r.Overrides == nil {
		return 0
	}
	return r.Overrides[st].For(tier)
}

// PublicRoom is the externally visible projection of a room.
type PublicRoom struct {
	ID       uint64 `json:"id"`
	Floor    string `json:"floor,omitempty"`
	Building string `json:"building,omitempty"`
	Name     string `json:"name,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Public hides every attribute whose display toggle is off.
func (r Room) Public() PublicRoom {
	p := PublicRoom{ID: r.ID}
	if r.Display.ShowFloor {
		p.Floor = r.Floor
	}
	if r.Display.ShowBuilding {
		p.Building = r.Building
	}
	if r.Display.ShowName {
		p.Name = r.Name
	}
	if r.Display.ShowType {
		p.Type = r.Type
	}
	return p
}

// RoomPatch lists the room fields an operator wants to change.  Nil
// fields and absent map keys are left untouched.
type RoomPatch struct {
	Floor     *string
	Building  *string
	Name      *string
	Type      *string
	Display   *Display
	Blocked   map[StayType]bool
	Overrides map[StayType]RatePatch
	Memo      *string
}

// RatePatch changes single tiers of a rate table.  Nil tiers keep their
// current value.
type RatePatch struct {
	Weekday *int64
	Friday  *int64
	Weekend *int64
}

// Apply returns t with the supplied tiers replaced.
func (p RatePatch) Apply(t RateTable) RateTable {
	if p.Weekday != nil {
		t.Weekday = *p.Weekday
	}
	if p.Friday != nil {
		t.Friday = *p.Friday
	}
	if p.Weekend != nil {
		t.Weekend = *p.Weekend
	}
	return t
}

// Apply returns a copy of r with the patch applied.
func (p RoomPatch) Apply(r Room) Room {
	if p.Floor != nil {
		r.Floor = *p.Floor
	}
	if p.Building != nil {
		r.Building = *p.Building
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Display != nil {
		r.Display = *p.Display
	}
	if len(p.Blocked) > 0 {
		blocked := make(map[StayType]bool, len(AllStayTypes))
		for k, v := range r.Blocked {
			blocked[k] = v
		}
		for k, v := range p.Blocked {
			blocked[k] = v
		}
		r.Blocked = blocked
	}
	if len(p.Overrides) > 0 {
		ov := make(map[StayType]RateTable, len(AllStayTypes))
		for k, v := range r.Overrides {
			ov[k] = v
		}
		for k, v := range p.Overrides {
			ov[k] = v.Apply(ov[k])
		}
		r.Overrides = ov
	}
	if p.Memo != nil {
		r.Memo = *p.Memo
	}
	return r
}
