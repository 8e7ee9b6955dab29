package group_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
	"github.com/MrJamesThe3rd/pocketbook/internal/group"
)

type mocks struct {
	repo  *group.MockRepository
	tx    *group.MockTx
	users *group.MockUserDirectory
}

func newService(t *testing.T) (*group.Service, *mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &mocks{
		repo:  group.NewMockRepository(ctrl),
		tx:    group.NewMockTx(ctrl),
		users: group.NewMockUserDirectory(ctrl),
	}

	return group.NewService(m.repo, m.users), m
}

// begin expects one transaction; the deferred Rollback runs on every path.
func (m *mocks) begin() {
	m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Rollback().Return(nil).AnyTimes()
}

func member(groupID, userID uuid.UUID, role group.Role) *group.Member {
	return &group.Member{GroupID: groupID, UserID: userID, Role: role}
}

func TestService_Create(t *testing.T) {
	svc, m := newService(t)
	actor := uuid.New()
	groupID := uuid.New()

	m.begin()
	m.tx.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *group.Group) error {
			assert.Equal(t, "Flat", g.Name)
			assert.True(t, g.IsCreator(actor))

			g.ID = groupID

			return nil
		})
	m.tx.EXPECT().
		AddMember(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, mem *group.Member) error {
			assert.Equal(t, member(groupID, actor, group.RoleAdmin), mem)
			return nil
		})
	m.tx.EXPECT().Commit().Return(nil)

	g, err := svc.Create(context.Background(), actor, group.CreateParams{Name: "  Flat  "})
	require.NoError(t, err)
	assert.Equal(t, groupID, g.ID)
}

func TestService_Create_RequiresName(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), uuid.New(), group.CreateParams{Name: " "})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestService_Get_NonMember(t *testing.T) {
	svc, m := newService(t)
	groupID := uuid.New()
	actor := uuid.New()

	m.repo.EXPECT().Membership(gomock.Any(), groupID, actor).Return(nil, apperr.ErrNotFound)

	_, err := svc.Get(context.Background(), actor, groupID)
	require.ErrorIs(t, err, apperr.ErrNotGroupMember)
}

func TestService_ChangeRole(t *testing.T) {
	groupID := uuid.New()
	creator := uuid.New()
	admin := uuid.New()
	other := uuid.New()
	plain := uuid.New()

	g := &group.Group{ID: groupID, Name: "Flat", CreatedBy: &creator}

	type testCase struct {
		name      string
		actor     uuid.UUID
		target    uuid.UUID
		role      group.Role
		setupMock func(m *mocks)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "DemoteAdminWithAnotherAdminLeft",
			actor:  admin,
			target: other,
			role:   group.RoleMember,
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, admin).Return(member(groupID, admin, group.RoleAdmin), nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, other).Return(member(groupID, other, group.RoleAdmin), nil)
				m.tx.EXPECT().CountAdmins(gomock.Any(), groupID).Return(2, nil)
				m.tx.EXPECT().SetRole(gomock.Any(), groupID, other, group.RoleMember).Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:   "PromoteMember",
			actor:  admin,
			target: plain,
			role:   group.RoleAdmin,
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, admin).Return(member(groupID, admin, group.RoleAdmin), nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, plain).Return(member(groupID, plain, group.RoleMember), nil)
				m.tx.EXPECT().SetRole(gomock.Any(), groupID, plain, group.RoleAdmin).Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:   "LastAdmin",
			actor:  admin,
			target: admin,
			role:   group.RoleMember,
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, admin).Return(member(groupID, admin, group.RoleAdmin), nil).Times(2)
				m.tx.EXPECT().CountAdmins(gomock.Any(), groupID).Return(1, nil)
			},
			wantErr: apperr.ErrLastAdminProtected,
		},
		{
			name:   "CreatorRegardlessOfAdminCount",
			actor:  admin,
			target: creator,
			role:   group.RoleMember,
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, admin).Return(member(groupID, admin, group.RoleAdmin), nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, creator).Return(member(groupID, creator, group.RoleAdmin), nil)
			},
			wantErr: apperr.ErrCreatorProtected,
		},
		{
			name:   "ActorNotAdmin",
			actor:  plain,
			target: other,
			role:   group.RoleMember,
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, plain).Return(member(groupID, plain, group.RoleMember), nil)
			},
			wantErr: apperr.ErrPermissionDenied,
		},
		{
			name:   "ActorNotMember",
			actor:  uuid.New(),
			target: other,
			role:   group.RoleMember,
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, gomock.Any()).Return(nil, apperr.ErrNotFound)
			},
			wantErr: apperr.ErrNotGroupMember,
		},
		{
			name:    "UnknownRole",
			actor:   admin,
			target:  other,
			role:    group.Role("owner"),
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.ChangeRole(context.Background(), tt.actor, groupID, tt.target, tt.role)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.role, got.Role)
		})
	}
}

// TestService_ChangeRole_TwoAdmins walks the two-admin scenario against a
// stateful fake: the first demotion succeeds, the second hits the last-admin guard.
func TestService_ChangeRole_TwoAdmins(t *testing.T) {
	svc, m := newService(t)
	groupID := uuid.New()
	a := uuid.New()
	b := uuid.New()
	g := &group.Group{ID: groupID, Name: "Legacy"}

	roles := map[uuid.UUID]group.Role{a: group.RoleAdmin, b: group.RoleAdmin}

	m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil).Times(2)
	m.tx.EXPECT().Rollback().Return(nil).AnyTimes()
	m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil).Times(2)
	m.tx.EXPECT().
		Membership(gomock.Any(), groupID, gomock.Any()).
		DoAndReturn(func(_ context.Context, gid, uid uuid.UUID) (*group.Member, error) {
			return member(gid, uid, roles[uid]), nil
		}).
		AnyTimes()
	m.tx.EXPECT().
		CountAdmins(gomock.Any(), groupID).
		DoAndReturn(func(context.Context, uuid.UUID) (int, error) {
			n := 0
			for _, r := range roles {
				if r == group.RoleAdmin {
					n++
				}
			}

			return n, nil
		}).
		Times(2)
	m.tx.EXPECT().
		SetRole(gomock.Any(), groupID, a, group.RoleMember).
		DoAndReturn(func(_ context.Context, _, uid uuid.UUID, role group.Role) error {
			roles[uid] = role
			return nil
		})
	m.tx.EXPECT().Commit().Return(nil)

	_, err := svc.ChangeRole(context.Background(), b, groupID, a, group.RoleMember)
	require.NoError(t, err)

	_, err = svc.ChangeRole(context.Background(), b, groupID, b, group.RoleMember)
	require.ErrorIs(t, err, apperr.ErrLastAdminProtected)
	assert.Equal(t, group.RoleAdmin, roles[b])
}

func TestService_AddMember(t *testing.T) {
	groupID := uuid.New()
	admin := uuid.New()
	invitee := uuid.New()
	g := &group.Group{ID: groupID}

	type testCase struct {
		name      string
		actor     uuid.UUID
		email     string
		setupMock func(m *mocks)
		wantErr   error
	}

	tests := []testCase{
		{
			name:  "Success",
			actor: admin,
			email: " Ana@Example.com ",
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, admin).Return(member(groupID, admin, group.RoleAdmin), nil)
				m.users.EXPECT().UserIDByEmail(gomock.Any(), "ana@example.com").Return(invitee, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, invitee).Return(nil, apperr.ErrNotFound)
				m.tx.EXPECT().AddMember(gomock.Any(), gomock.Any()).Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:  "AlreadyMember",
			actor: admin,
			email: "ana@example.com",
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, admin).Return(member(groupID, admin, group.RoleAdmin), nil)
				m.users.EXPECT().UserIDByEmail(gomock.Any(), "ana@example.com").Return(invitee, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, invitee).Return(member(groupID, invitee, group.RoleMember), nil)
			},
			wantErr: apperr.ErrDuplicateName,
		},
		{
			name:  "UnknownEmail",
			actor: admin,
			email: "nobody@example.com",
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, admin).Return(member(groupID, admin, group.RoleAdmin), nil)
				m.users.EXPECT().UserIDByEmail(gomock.Any(), "nobody@example.com").Return(uuid.Nil, apperr.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:  "NotAdmin",
			actor: invitee,
			email: "someone@example.com",
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, invitee).Return(member(groupID, invitee, group.RoleMember), nil)
			},
			wantErr: apperr.ErrPermissionDenied,
		},
		{
			name:    "EmptyEmail",
			actor:   admin,
			email:   "  ",
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.AddMember(context.Background(), tt.actor, groupID, tt.email, "")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, invitee, got.UserID)
			assert.Equal(t, group.RoleMember, got.Role)
		})
	}
}

func TestService_RemoveMember(t *testing.T) {
	groupID := uuid.New()
	creator := uuid.New()
	admin := uuid.New()
	plain := uuid.New()
	g := &group.Group{ID: groupID, CreatedBy: &creator}

	type testCase struct {
		name      string
		actor     uuid.UUID
		target    uuid.UUID
		setupMock func(m *mocks)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "MemberLeaves",
			actor:  plain,
			target: plain,
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, plain).Return(member(groupID, plain, group.RoleMember), nil)
				m.tx.EXPECT().RemoveMember(gomock.Any(), groupID, plain).Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:   "AdminRemovesMember",
			actor:  admin,
			target: plain,
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, admin).Return(member(groupID, admin, group.RoleAdmin), nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, plain).Return(member(groupID, plain, group.RoleMember), nil)
				m.tx.EXPECT().RemoveMember(gomock.Any(), groupID, plain).Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:   "CreatorCannotLeave",
			actor:  creator,
			target: creator,
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, creator).Return(member(groupID, creator, group.RoleAdmin), nil)
			},
			wantErr: apperr.ErrCreatorProtected,
		},
		{
			name:   "LastAdminCannotLeave",
			actor:  admin,
			target: admin,
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, admin).Return(member(groupID, admin, group.RoleAdmin), nil)
				m.tx.EXPECT().CountAdmins(gomock.Any(), groupID).Return(1, nil)
			},
			wantErr: apperr.ErrLastAdminProtected,
		},
		{
			name:   "MemberCannotRemoveOthers",
			actor:  plain,
			target: admin,
			setupMock: func(m *mocks) {
				m.begin()
				m.tx.EXPECT().LockGroup(gomock.Any(), groupID).Return(g, nil)
				m.tx.EXPECT().Membership(gomock.Any(), groupID, plain).Return(member(groupID, plain, group.RoleMember), nil)
			},
			wantErr: apperr.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			err := svc.RemoveMember(context.Background(), tt.actor, groupID, tt.target)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}
