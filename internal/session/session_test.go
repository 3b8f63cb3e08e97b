package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accredited-programmes-ui/internal/model"
)

func TestFlashIsConsumedOnce(t *testing.T) {
	sess := New()
	sess.AddFlash("categoryCode", "Select a withdrawal category")

	assert.Equal(t, []string{"Select a withdrawal category"}, sess.ConsumeFlash("categoryCode"))
	assert.Empty(t, sess.ConsumeFlash("categoryCode"))
}

func TestReferralStatusUpdateDataMatches(t *testing.T) {
	var missing *ReferralStatusUpdateData
	assert.False(t, missing.Matches("r1", "WITHDRAWN"))

	data := &ReferralStatusUpdateData{ReferralID: "r1", Status: "WITHDRAWN"}
	assert.True(t, data.Matches("r1", "WITHDRAWN"))
	assert.False(t, data.Matches("r2", "WITHDRAWN"))
	assert.False(t, data.Matches("r1", "DESELECTED"))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	sess := New()
	sess.UserToken = "token"
	sess.User = &model.User{Username: "user1", Roles: []string{model.RoleReferrer}}
	sess.ReferralStatusUpdateData = &ReferralStatusUpdateData{ReferralID: "r1", Status: "WITHDRAWN"}
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "user1", loaded.User.Username)
	assert.Equal(t, "r1", loaded.ReferralStatusUpdateData.ReferralID)

	// loaded copies are independent of the stored value
	loaded.ReferralStatusUpdateData = nil
	again, _ := store.Get(ctx, sess.ID)
	assert.NotNil(t, again.ReferralStatusUpdateData)

	require.NoError(t, store.Destroy(ctx, sess.ID))
	gone, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMemoryStoreExpiry(t *testing.T) {
	now := time.Now()
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	sess := New()
	require.NoError(t, store.Save(context.Background(), sess))

	now = now.Add(time.Minute)
	loaded, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSignOut(t *testing.T) {
	sess := New()
	sess.UserToken = "token"
	sess.User = &model.User{Username: "user1"}
	sess.PniFindAndReferData = &PniFindAndReferData{PrisonNumber: "A1234AA"}
	sess.ReturnTo = "/refer"

	sess.SignOut()

	assert.Empty(t, sess.UserToken)
	assert.Nil(t, sess.User)
	assert.Nil(t, sess.PniFindAndReferData)
	assert.Equal(t, "/refer", sess.ReturnTo)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
