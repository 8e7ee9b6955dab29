package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

type ownerKind uint8

const (
	ownerNone ownerKind = iota
	ownerPersonal
	ownerGroup
)

// Owner is either a user (personal) or a group, never both. The zero value owns
// nothing and is rejected by every operation.
type Owner struct {
	kind ownerKind
	id   uuid.UUID
}

func PersonalOwner(userID uuid.UUID) Owner {
	return Owner{kind: ownerPersonal, id: userID}
}

func GroupOwner(groupID uuid.UUID) Owner {
	return Owner{kind: ownerGroup, id: groupID}
}

// OwnerFromColumns rebuilds an Owner from the two nullable storage columns.
func OwnerFromColumns(userID, groupID *uuid.UUID) (Owner, error) {
	switch {
	case userID != nil && groupID == nil:
		return PersonalOwner(*userID), nil
	case groupID != nil && userID == nil:
		return GroupOwner(*groupID), nil
	default:
		return Owner{}, fmt.Errorf("owner columns must have exactly one value set")
	}
}

// Columns splits the owner into the (user_id, group_id) storage pair.
func (o Owner) Columns() (userID, groupID *uuid.UUID) {
	id := o.id

	switch o.kind {
	case ownerPersonal:
		return &id, nil
	case ownerGroup:
		return nil, &id
	}

	return nil, nil
}

func (o Owner) User() (uuid.UUID, bool) {
	return o.id, o.kind == ownerPersonal
}

func (o Owner) Group() (uuid.UUID, bool) {
	return o.id, o.kind == ownerGroup
}

func (o Owner) IsZero() bool { return o.kind == ownerNone }

func (o Owner) String() string {
	switch o.kind {
	case ownerPersonal:
		return "user:" + o.id.String()
	case ownerGroup:
		return "group:" + o.id.String()
	}

	return "none"
}
