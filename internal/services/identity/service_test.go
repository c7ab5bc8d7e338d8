package identity

import (
	"context"
	"errors"
	"regexp"
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

type mockLinker struct {
	mock.Mock
}

func (m *mockLinker) Link(ctx context.Context, inviter, invitee *models.User) error {
	args := m.Called(ctx, inviter, invitee)
	return args.Error(0)
}

var codePattern = regexp.MustCompile(`^[1-9]\d{5}$`)

func TestResolveOrCreate_NewUser(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, nil)

	repo.On("GetByChatID", "chat-1").Return(nil, repositories.ErrUserNotFound)
	repo.On("CreateWithWallet", mock.Anything).Return(nil)

	user, err := svc.ResolveOrCreate(context.Background(), "chat-1", "alice", "a.png")
	require.NoError(t, err)

	assert.Equal(t, "chat-1", user.ChatID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.Regexp(t, codePattern, user.ReferralCode)
	assert.Nil(t, user.ReferredBy)
	repo.AssertExpectations(t)
}

func TestResolveOrCreate_MissingChatID(t *testing.T) {
	svc := NewService(new(mockUserRepo), nil)

	_, err := svc.ResolveOrCreate(context.Background(), "", "alice", "")
	assert.ErrorIs(t, err, ErrMissingChatID)
}

func TestResolveOrCreate_ExistingUserKeepsCode(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, nil)

	existing := &models.User{ChatID: "chat-1", Username: "alice", ReferralCode: "123456"}
	repo.On("GetByChatID", "chat-1").Return(existing, nil)
	repo.On("Update", mock.Anything).Return(nil)

	user, err := svc.ResolveOrCreate(context.Background(), "chat-1", "alice2", "new.png")
	require.NoError(t, err)

	assert.Equal(t, "123456", user.ReferralCode)
	assert.Nil(t, user.ReferredBy)
	assert.Equal(t, "alice2", user.Username)
	assert.Equal(t, "new.png", user.Avatar)
}

func TestResolveOrCreate_EmptyFieldsDoNotOverwrite(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, nil)

	existing := &models.User{ChatID: "chat-1", Username: "alice", Avatar: "a.png", ReferralCode: "123456"}
	repo.On("GetByChatID", "chat-1").Return(existing, nil)

	user, err := svc.ResolveOrCreate(context.Background(), "chat-1", "", "")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a.png", user.Avatar)
	// No Update expected when nothing changed.
	repo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestResolveOrCreate_CodeCollisionRetries(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, nil)

	repo.On("GetByChatID", "chat-1").Return(nil, repositories.ErrUserNotFound)
	// First insert collides on the referral code, second succeeds.
	repo.On("CreateWithWallet", mock.Anything).Return(repositories.ErrDuplicateRecord).Once()
	repo.On("CreateWithWallet", mock.Anything).Return(nil).Once()

	user, err := svc.ResolveOrCreate(context.Background(), "chat-1", "alice", "")
	require.NoError(t, err)
	assert.Regexp(t, codePattern, user.ReferralCode)
	repo.AssertExpectations(t)
}

func TestResolveOrCreate_LostCreationRaceAdoptsWinner(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, nil)

	winner := &models.User{ChatID: "chat-1", Username: "alice", ReferralCode: "654321"}
	repo.On("GetByChatID", "chat-1").Return(nil, repositories.ErrUserNotFound).Once()
	repo.On("CreateWithWallet", mock.Anything).Return(repositories.ErrDuplicateRecord).Once()
	repo.On("GetByChatID", "chat-1").Return(winner, nil).Once()

	user, err := svc.ResolveOrCreate(context.Background(), "chat-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "654321", user.ReferralCode)
}

func TestResolveOrCreate_ReReadFailureSurfaces(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, nil)

	boom := errors.New("connection reset")
	repo.On("GetByChatID", "chat-1").Return(nil, repositories.ErrUserNotFound).Once()
	repo.On("CreateWithWallet", mock.Anything).Return(repositories.ErrDuplicateRecord).Once()
	repo.On("GetByChatID", "chat-1").Return(nil, boom).Once()

	_, err := svc.ResolveOrCreate(context.Background(), "chat-1", "alice", "")
	assert.ErrorIs(t, err, boom)
	// A storage failure must not be retried as a code collision.
	repo.AssertNumberOfCalls(t, "CreateWithWallet", 1)
}

func TestResolveOrCreate_AllocationExhaustion(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, nil)

	repo.On("GetByChatID", "chat-1").Return(nil, repositories.ErrUserNotFound)
	repo.On("CreateWithWallet", mock.Anything).Return(repositories.ErrDuplicateRecord)

	_, err := svc.ResolveOrCreate(context.Background(), "chat-1", "alice", "")
	assert.ErrorIs(t, err, ErrCodeAllocation)
	repo.AssertNumberOfCalls(t, "CreateWithWallet", codeAllocationAttempts)
}

func TestCreateFromReferral_NewUserLinksInviter(t *testing.T) {
	repo := new(mockUserRepo)
	linker := new(mockLinker)
	svc := NewService(repo, linker)

	inviter := &models.User{ChatID: "chat-9", ReferralCode: "111111"}
	ref := "111111"

	repo.On("GetByChatID", "chat-1").Return(nil, repositories.ErrUserNotFound)
	repo.On("CreateWithWallet", mock.Anything).Return(nil)
	repo.On("GetByReferralCode", "111111").Return(inviter, nil)
	linker.On("Link", mock.Anything, inviter, mock.Anything).Return(nil)

	user, err := svc.CreateFromReferral(context.Background(), "chat-1", "bob", "", &ref)
	require.NoError(t, err)

	require.NotNil(t, user.ReferredBy)
	assert.Equal(t, "111111", *user.ReferredBy)
	linker.AssertExpectations(t)
}

func TestCreateFromReferral_LostRaceRecordsNoLinkage(t *testing.T) {
	repo := new(mockUserRepo)
	linker := new(mockLinker)
	svc := NewService(repo, linker)

	// Another request created the user between the lookup and the insert;
	// the adopted row is an existing user and must not gain linkage.
	winner := &models.User{ChatID: "chat-1", Username: "bob", ReferralCode: "654321"}
	ref := "111111"
	repo.On("GetByChatID", "chat-1").Return(nil, repositories.ErrUserNotFound).Once()
	repo.On("CreateWithWallet", mock.Anything).Return(repositories.ErrDuplicateRecord).Once()
	repo.On("GetByChatID", "chat-1").Return(winner, nil).Once()

	user, err := svc.CreateFromReferral(context.Background(), "chat-1", "", "", &ref)
	require.NoError(t, err)

	assert.Equal(t, "654321", user.ReferralCode)
	assert.Nil(t, user.ReferredBy)
	repo.AssertNotCalled(t, "GetByReferralCode", mock.Anything)
	linker.AssertNotCalled(t, "Link", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateFromReferral_UnknownRefCreatesNoLinkage(t *testing.T) {
	repo := new(mockUserRepo)
	linker := new(mockLinker)
	svc := NewService(repo, linker)

	ref := "000000"
	repo.On("GetByChatID", "chat-1").Return(nil, repositories.ErrUserNotFound)
	repo.On("CreateWithWallet", mock.Anything).Return(nil)
	repo.On("GetByReferralCode", "000000").Return(nil, repositories.ErrUserNotFound)

	user, err := svc.CreateFromReferral(context.Background(), "chat-1", "bob", "", &ref)
	require.NoError(t, err)

	// The raw code is stored, but no linkage is recorded anywhere.
	require.NotNil(t, user.ReferredBy)
	assert.Equal(t, "000000", *user.ReferredBy)
	linker.AssertNotCalled(t, "Link", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateFromReferral_ExistingUserKeepsReferredBy(t *testing.T) {
	repo := new(mockUserRepo)
	linker := new(mockLinker)
	svc := NewService(repo, linker)

	original := "111111"
	existing := &models.User{ChatID: "chat-1", Username: "bob", ReferralCode: "222222", ReferredBy: &original}
	repo.On("GetByChatID", "chat-1").Return(existing, nil)

	other := "999999"
	user, err := svc.CreateFromReferral(context.Background(), "chat-1", "bob", "", &other)
	require.NoError(t, err)

	require.NotNil(t, user.ReferredBy)
	assert.Equal(t, "111111", *user.ReferredBy)
	linker.AssertNotCalled(t, "Link", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateFromReferral_NilRef(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, new(mockLinker))

	repo.On("GetByChatID", "chat-1").Return(nil, repositories.ErrUserNotFound)
	repo.On("CreateWithWallet", mock.Anything).Return(nil)

	user, err := svc.CreateFromReferral(context.Background(), "chat-1", "bob", "", nil)
	require.NoError(t, err)
	assert.Nil(t, user.ReferredBy)
}

func TestRandomReferralCode(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := randomReferralCode()
		assert.Regexp(t, codePattern, code)
	}
}
