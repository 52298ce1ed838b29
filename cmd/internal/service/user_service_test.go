package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/domain/events"
	cognitoclient "bizdirectory/cmd/internal/infrastructure/aws/cognito"
	"bizdirectory/cmd/internal/utils/apierror"
	"bizdirectory/cmd/internal/utils/validators"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPassword = "Secr3t!pass"

// fakeCognito keeps accounts in memory, keyed by email.
type fakeCognito struct {
	mu        sync.Mutex
	passwords map[string]string
	subs      map[string]string
	next      int
}

func newFakeCognito() *fakeCognito {
	return &fakeCognito{passwords: map[string]string{}, subs: map[string]string{}}
}

func (f *fakeCognito) SignUp(_ context.Context, user *cognitoclient.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.passwords[user.Email]; ok {
		return "", &types.UsernameExistsException{Message: aws.String("exists")}
	}

	f.next++
	sub := "sub-" + string(rune('a'+f.next-1))
	f.passwords[user.Email] = user.Password
	f.subs[user.Email] = sub
	return sub, nil
}

func (f *fakeCognito) SignIn(_ context.Context, user *cognitoclient.UserLogin) (*cognitoclient.AuthCreate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.passwords[user.Email] != user.Password {
		return nil, &types.NotAuthorizedException{Message: aws.String("Incorrect username or password.")}
	}
	return &cognitoclient.AuthCreate{AccessToken: "access", IDToken: "id", ExpiresIn: 3600}, nil
}

func (f *fakeCognito) ChangePassword(_ context.Context, email, current, proposed string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.passwords[email] != current {
		return &types.NotAuthorizedException{Message: aws.String("Incorrect username or password.")}
	}
	f.passwords[email] = proposed
	return nil
}

func (f *fakeCognito) UpdateEmail(_ context.Context, email, newEmail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords[newEmail] = f.passwords[email]
	f.subs[newEmail] = f.subs[email]
	delete(f.passwords, email)
	delete(f.subs, email)
	return nil
}

func (f *fakeCognito) AdminDeleteUser(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.passwords[email]; !ok {
		return &types.UserNotFoundException{Message: aws.String("User does not exist.")}
	}
	delete(f.passwords, email)
	delete(f.subs, email)
	return nil
}

type recordingTerminator struct {
	mu    sync.Mutex
	kills map[string]contract.KillCode
}

func (r *recordingTerminator) TerminateUserConnections(_ context.Context, userID string, ck *events.ConnectionKill) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kills[userID] = ck.Code
}

func (r *recordingTerminator) killed(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.kills[userID]
	return ok
}

func newUserService(env *testEnv, cog cognitoclient.CognitoInterface, sessions SessionTerminator) *UserService {
	return NewUserService(env.users, env.rates, cog, sessions, env.events, validators.New())
}

func register(t *testing.T, svc *UserService, email string) *contract.UserResponse {
	t.Helper()
	user, apierr := svc.CreateUser(context.Background(), &contract.CreateUserRequest{
		Email:    email,
		Password: validPassword,
	})
	require.Nil(t, apierr)
	return user
}

func TestCreateUserUsesSubAndEmailAsUsername(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env, newFakeCognito(), nil)

	user := register(t, svc, "anna@example.com")

	assert.Equal(t, "sub-a", user.ID)
	assert.Equal(t, "anna@example.com", user.Username)
	assert.Empty(t, user.Rates)

	_, apierr := svc.CreateUser(context.Background(), &contract.CreateUserRequest{
		Email:    "anna@example.com",
		Password: validPassword,
	})
	assert.Equal(t, apierror.IDPExistingEmailError, apierr)
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env, newFakeCognito(), nil)

	_, apierr := svc.CreateUser(context.Background(), &contract.CreateUserRequest{
		Email:    "not-an-email",
		Password: "weak",
	})

	require.NotNil(t, apierr)
	se, ok := apierr.(*apierror.StructuredError)
	require.True(t, ok)
	assert.Contains(t, se.Errors, "email")
	assert.Contains(t, se.Errors, "password")
}

func TestCreateUserWithoutIdentityProvider(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env, nil, nil)

	_, apierr := svc.CreateUser(context.Background(), &contract.CreateUserRequest{
		Email:    "anna@example.com",
		Password: validPassword,
	})

	assert.Equal(t, apierror.ServiceUnavailable, apierr)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env, newFakeCognito(), nil)
	register(t, svc, "anna@example.com")

	resp, apierr := svc.Login(context.Background(), &contract.UserLoginRequest{
		Email:    "anna@example.com",
		Password: validPassword,
	})
	require.Nil(t, apierr)
	assert.Equal(t, "access", resp.AccessToken)

	_, apierr = svc.Login(context.Background(), &contract.UserLoginRequest{
		Email:    "nobody@example.com",
		Password: validPassword,
	})
	assert.Equal(t, apierror.IDPUserNotFoundError, apierr)

	_, apierr = svc.Login(context.Background(), &contract.UserLoginRequest{
		Email:    "anna@example.com",
		Password: "Wr0ng!pass",
	})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
}

func TestUpdateUserEmailAndPassword(t *testing.T) {
	env := newTestEnv(t)
	cog := newFakeCognito()
	svc := newUserService(env, cog, nil)
	user := register(t, svc, "anna@example.com")

	apierr := svc.UpdateUser(context.Background(), nil, user.ID, &contract.UpdateUserRequest{
		Email:           ptr("anna@new.example.com"),
		CurrentPassword: ptr(validPassword),
		NewPassword:     ptr("N3w!password"),
	})
	require.Nil(t, apierr)

	updated, apierr := svc.GetUser(user.ID)
	require.Nil(t, apierr)
	assert.Equal(t, "anna@new.example.com", updated.Email)
	assert.Equal(t, "anna@new.example.com", updated.Username)
	assert.Equal(t, "N3w!password", cog.passwords["anna@new.example.com"])
}

func TestUpdateUserPasswordNeedsBothFields(t *testing.T) {
	env := newTestEnv(t)
	cog := newFakeCognito()
	svc := newUserService(env, cog, nil)
	user := register(t, svc, "anna@example.com")

	apierr := svc.UpdateUser(context.Background(), nil, user.ID, &contract.UpdateUserRequest{
		NewPassword: ptr("N3w!password"),
	})

	require.Nil(t, apierr)
	assert.Equal(t, validPassword, cog.passwords["anna@example.com"])
}

func TestUpdateUserOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env, newFakeCognito(), nil)
	user := register(t, svc, "anna@example.com")
	other := &entity.User{ID: "someone-else"}

	apierr := svc.UpdateUser(context.Background(), other, user.ID, &contract.UpdateUserRequest{})
	assert.Equal(t, apierror.NotAccountOwnerError, apierr)

	assert.Equal(t, apierror.NotAccountOwnerError, svc.DeleteUser(context.Background(), other, user.ID))
	assert.Equal(t, apierror.NotFoundError, svc.UpdateUser(context.Background(), nil, "ghost", &contract.UpdateUserRequest{}))
}

func TestUpdateUserEmailTaken(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env, newFakeCognito(), nil)
	anna := register(t, svc, "anna@example.com")
	register(t, svc, "bob@example.com")

	apierr := svc.UpdateUser(context.Background(), nil, anna.ID, &contract.UpdateUserRequest{
		Email: ptr("bob@example.com"),
	})

	assert.Equal(t, apierror.IDPExistingEmailError, apierr)
}

func TestDeleteUserCascadesRates(t *testing.T) {
	env := newTestEnv(t)
	cog := newFakeCognito()
	sessions := &recordingTerminator{kills: map[string]contract.KillCode{}}
	svc := newUserService(env, cog, sessions)
	anna := register(t, svc, "anna@example.com")
	bob := register(t, svc, "bob@example.com")
	company := env.createCompany(t, "Forn Vell", false, nil)
	env.rate(t, anna.ID, company.ID, 1)
	env.rate(t, bob.ID, company.ID, 5)
	require.Equal(t, 3.0, env.score(t, company.ID))

	actor := &entity.User{ID: anna.ID}
	require.Nil(t, svc.DeleteUser(context.Background(), actor, anna.ID))

	assert.Equal(t, 5.0, env.score(t, company.ID))
	assert.NotContains(t, cog.passwords, "anna@example.com")

	_, apierr := svc.GetUser(anna.ID)
	assert.Equal(t, apierror.NotFoundError, apierr)

	assert.Eventually(t, func() bool {
		return sessions.killed(anna.ID)
	}, time.Second, 10*time.Millisecond)
}

func TestGetUserRates(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env, newFakeCognito(), nil)
	anna := register(t, svc, "anna@example.com")
	company := env.createCompany(t, "Forn Vell", false, nil)
	env.rate(t, anna.ID, company.ID, 4)

	rates, apierr := svc.GetUserRates(anna.ID)
	require.Nil(t, apierr)
	require.Len(t, rates, 1)
	assert.Equal(t, 4.0, rates[0].Score)

	users, apierr := svc.GetUsers()
	require.Nil(t, apierr)
	require.Len(t, users, 1)
	assert.Len(t, users[0].Rates, 1)
}
