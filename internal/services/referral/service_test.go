package referral

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"refpay/internal/models"
	"refpay/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateWithWallet(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByChatID(chatID string) (*models.User, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByReferralCode(code string) (*models.User, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// fakeReferralRepo models the storage contract in memory: unique record
// per inviter, atomic single-row appends deduplicated on
// (referral_id, user_id), bounds-safe limit/offset slicing.
type fakeReferralRepo struct {
	mu      sync.Mutex
	nextID  uint
	records map[string]*models.Referral
	entries map[uint][]models.ReferredUser
}

func newFakeReferralRepo() *fakeReferralRepo {
	return &fakeReferralRepo{
		records: make(map[string]*models.Referral),
		entries: make(map[uint][]models.ReferredUser),
	}
}

func (f *fakeReferralRepo) GetOrCreate(chatID, referralCode string) (*models.Referral, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ref, ok := f.records[chatID]; ok {
		return ref, nil
	}
	f.nextID++
	ref := &models.Referral{ID: f.nextID, ChatID: chatID, ReferralCode: referralCode}
	f.records[chatID] = ref
	return ref, nil
}

func (f *fakeReferralRepo) GetByChatID(chatID string) (*models.Referral, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref, ok := f.records[chatID]
	if !ok {
		return nil, repositories.ErrReferralNotFound
	}
	return ref, nil
}

func (f *fakeReferralRepo) AppendReferredUser(referralID uint, entry *models.ReferredUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.entries[referralID] {
		if existing.UserID == entry.UserID {
			return nil
		}
	}
	entry.ReferralID = referralID
	f.entries[referralID] = append(f.entries[referralID], *entry)
	return nil
}

func (f *fakeReferralRepo) ListReferredUsers(referralID uint, limit, offset int) ([]models.ReferredUser, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.entries[referralID]
	total := int64(len(all))
	if offset >= len(all) {
		return []models.ReferredUser{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeReferralRepo) CountReferredUsers(referralID uint) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active int64
	for _, e := range f.entries[referralID] {
		if e.IsActive {
			active++
		}
	}
	return int64(len(f.entries[referralID])), active, nil
}

var testConfig = Config{
	LinkBase:              "https://t.me/refpay_bot?start=",
	CommissionPerReferral: 10,
}

func TestGetSummary_UnknownUser(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByChatID", "nobody").Return(nil, repositories.ErrUserNotFound)
	svc := NewService(users, newFakeReferralRepo(), nil, testConfig)

	_, err := svc.GetSummary(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetSummary_NoReferralsYet(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByChatID", "chat-1").Return(&models.User{ChatID: "chat-1", ReferralCode: "123456"}, nil)
	svc := NewService(users, newFakeReferralRepo(), nil, testConfig)

	summary, err := svc.GetSummary(context.Background(), "chat-1")
	require.NoError(t, err)

	assert.Equal(t, "123456", summary.Code)
	assert.Equal(t, "https://t.me/refpay_bot?start=123456", summary.Link)
	assert.Zero(t, summary.TotalReferrals)
	assert.Zero(t, summary.SuccessfulReferrals)
	assert.Zero(t, summary.TotalEarned)
	assert.Equal(t, 10.0, summary.CommissionPerReferral)
}

func TestGetSummary_CountsActiveReferrals(t *testing.T) {
	users := new(mockUserRepo)
	inviter := &models.User{ChatID: "chat-1", ReferralCode: "123456"}
	users.On("GetByChatID", "chat-1").Return(inviter, nil)

	repo := newFakeReferralRepo()
	svc := NewService(users, repo, nil, testConfig)

	ref, err := repo.GetOrCreate("chat-1", "123456")
	require.NoError(t, err)
	ref.TotalEarned = 20
	ref.PendingEarned = 10
	require.NoError(t, repo.AppendReferredUser(ref.ID, &models.ReferredUser{UserID: "a", IsActive: true}))
	require.NoError(t, repo.AppendReferredUser(ref.ID, &models.ReferredUser{UserID: "b", IsActive: true}))
	require.NoError(t, repo.AppendReferredUser(ref.ID, &models.ReferredUser{UserID: "c"}))

	summary, err := svc.GetSummary(context.Background(), "chat-1")
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalReferrals)
	assert.Equal(t, int64(2), summary.SuccessfulReferrals)
	assert.Equal(t, 20.0, summary.TotalEarned)
	assert.Equal(t, 10.0, summary.PendingEarned)
}

func TestListReferredUsers_OutOfRangeOffset(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByChatID", "chat-1").Return(&models.User{ChatID: "chat-1", ReferralCode: "123456"}, nil)

	repo := newFakeReferralRepo()
	svc := NewService(users, repo, nil, testConfig)

	ref, _ := repo.GetOrCreate("chat-1", "123456")
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.AppendReferredUser(ref.ID, &models.ReferredUser{UserID: id}))
	}

	entries, total, err := svc.ListReferredUsers(context.Background(), "chat-1", 20, 1000)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, int64(3), total)
}

func TestListReferredUsers_NoReferralRecord(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByChatID", "chat-1").Return(&models.User{ChatID: "chat-1", ReferralCode: "123456"}, nil)
	svc := NewService(users, newFakeReferralRepo(), nil, testConfig)

	entries, total, err := svc.ListReferredUsers(context.Background(), "chat-1", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, total)
}

func TestLink_ConcurrentAppendsLoseNothing(t *testing.T) {
	users := new(mockUserRepo)
	repo := newFakeReferralRepo()
	svc := NewService(users, repo, nil, testConfig)

	inviter := &models.User{ChatID: "chat-1", ReferralCode: "123456"}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			invitee := &models.User{ChatID: fmt.Sprintf("invitee-%d", i)}
			assert.NoError(t, svc.Link(context.Background(), inviter, invitee))
		}(i)
	}
	wg.Wait()

	ref, err := repo.GetByChatID("chat-1")
	require.NoError(t, err)
	total, _, err := repo.CountReferredUsers(ref.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), total)
}

func TestLink_SameInviteeTwiceIsNoop(t *testing.T) {
	users := new(mockUserRepo)
	repo := newFakeReferralRepo()
	svc := NewService(users, repo, nil, testConfig)

	inviter := &models.User{ChatID: "chat-1", ReferralCode: "123456"}
	invitee := &models.User{ChatID: "chat-2", Username: "bob"}

	require.NoError(t, svc.Link(context.Background(), inviter, invitee))
	require.NoError(t, svc.Link(context.Background(), inviter, invitee))

	ref, err := repo.GetByChatID("chat-1")
	require.NoError(t, err)
	total, _, err := repo.CountReferredUsers(ref.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
