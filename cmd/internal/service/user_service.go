package service

import (
	"context"
	"errors"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/domain/events"
	"bizdirectory/cmd/internal/domain/policy"
	"bizdirectory/cmd/internal/domain/sqlite/repository"
	cognitoclient "bizdirectory/cmd/internal/infrastructure/aws/cognito"
	"bizdirectory/cmd/internal/utils"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// SessionTerminator closes the live connections of a user.
type SessionTerminator interface {
	TerminateUserConnections(ctx context.Context, userID string, ck *events.ConnectionKill)
}

type UserService struct {
	UserRepo UserRepository
	RateRepo RateRepository
	Cognito  cognitoclient.CognitoInterface
	Sessions SessionTerminator
	Events   EventBroadcaster
	Validate *validator.Validate

	policy *policy.UserPolicy
}

func NewUserService(
	userRepo UserRepository,
	rateRepo RateRepository,
	cogClient cognitoclient.CognitoInterface,
	sessions SessionTerminator,
	broadcaster EventBroadcaster,
	validate *validator.Validate,
) *UserService {
	return &UserService{
		UserRepo: userRepo,
		RateRepo: rateRepo,
		Cognito:  cogClient,
		Sessions: sessions,
		Events:   broadcaster,
		Validate: validate,
		policy:   policy.NewUserPolicy(),
	}
}

func (u *UserService) GetUsers() ([]*contract.UserResponse, apierror.ErrorResponse) {
	users, err := u.UserRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch users: %v", err)
		return nil, apierror.InternalServerError
	}

	ids := make([]string, len(users))
	for i, user := range users {
		ids[i] = user.ID
	}

	rates, err := u.RateRepo.FindAllInUserIDs(ids)
	if err != nil {
		log.Errorf("failed to fetch rates of users: %v", err)
		return nil, apierror.InternalServerError
	}

	byUser := map[string][]*entity.Rate{}
	for _, r := range rates {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	resp := make([]*contract.UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user, byUser[user.ID])
	}
	return resp, nil
}

func (u *UserService) GetUser(id string) (*contract.UserResponse, apierror.ErrorResponse) {
	user, apierr := u.fetchUser(id)
	if apierr != nil {
		return nil, apierr
	}

	if user == nil {
		return nil, apierror.NotFoundError
	}

	rates, apierr := u.fetchRates(id)
	if apierr != nil {
		return nil, apierr
	}
	return toUserResponse(user, rates), nil
}

func (u *UserService) GetUserRates(id string) ([]*contract.RateResponse, apierror.ErrorResponse) {
	user, apierr := u.fetchUser(id)
	if apierr != nil {
		return nil, apierr
	}

	if user == nil {
		return nil, apierror.NotFoundError
	}

	rates, apierr := u.fetchRates(id)
	if apierr != nil {
		return nil, apierr
	}
	return toRateResponses(rates), nil
}

// CreateUser registers the user on Cognito and then in our database, the
// Cognito "sub" becomes the user ID.
func (u *UserService) CreateUser(ctx context.Context, req *contract.CreateUserRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if u.Cognito == nil {
		return nil, apierror.ServiceUnavailable
	}

	found, err := u.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}

	if found {
		return nil, apierror.IDPExistingEmailError
	}

	sub, err := u.Cognito.SignUp(ctx, &cognitoclient.User{
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return nil, utils.MapCognitoError(err)
	}

	username := req.Username
	if username == "" {
		username = req.Email
	}

	now := utils.NowUTC()
	user := &entity.User{
		ID:          sub,
		Email:       req.Email,
		Username:    username,
		PhoneNumber: req.PhoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err = u.UserRepo.Create(user); err != nil {
		log.Errorf("failed to create user %s: %v", sub, err)
		if rerr := u.Cognito.AdminDeleteUser(ctx, req.Email); rerr != nil {
			log.Errorf("failed to revert cognito signup of %s: %v", req.Email, rerr)
		}

		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apierror.IDPExistingEmailError
		}
		return nil, apierror.InternalServerError
	}
	return toUserResponse(user, nil), nil
}

func (u *UserService) Login(ctx context.Context, req *contract.UserLoginRequest) (*contract.UserLoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if u.Cognito == nil {
		return nil, apierror.ServiceUnavailable
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.IDPUserNotFoundError
	}

	auth, err := u.Cognito.SignIn(ctx, &cognitoclient.UserLogin{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, utils.MapCognitoError(err)
	}

	return &contract.UserLoginResponse{
		AccessToken:  auth.AccessToken,
		IDToken:      auth.IDToken,
		RefreshToken: auth.RefreshToken,
		ExpiresIn:    auth.ExpiresIn,
	}, nil
}

// UpdateUser changes the email and/or the password of the user. The
// password is only changed when both the current and the new one are given.
// The actor is nil when authentication is disabled.
func (u *UserService) UpdateUser(ctx context.Context, actor *entity.User, id string, req *contract.UpdateUserRequest) apierror.ErrorResponse {
	if apierr := u.policy.CanModifyAccount(actor, id); apierr != nil {
		return apierr
	}

	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	user, apierr := u.fetchUser(id)
	if apierr != nil {
		return apierr
	}

	if user == nil {
		return apierror.NotFoundError
	}

	newEmail := ""
	if req.Email != nil && *req.Email != "" && *req.Email != user.Email {
		newEmail = *req.Email
		taken, err := u.UserRepo.FindByEmail(newEmail)
		if err != nil {
			log.Errorf("failed to check email %s: %v", newEmail, err)
			return apierror.InternalServerError
		}

		if taken != nil {
			return apierror.IDPExistingEmailError
		}
	}

	changePassword := req.CurrentPassword != nil && *req.CurrentPassword != "" &&
		req.NewPassword != nil && *req.NewPassword != ""

	if (newEmail != "" || changePassword) && u.Cognito == nil {
		return apierror.ServiceUnavailable
	}

	// The password goes first, Cognito still knows the user by the old email
	if changePassword {
		err := u.Cognito.ChangePassword(ctx, user.Email, *req.CurrentPassword, *req.NewPassword)
		if err != nil {
			return utils.MapCognitoError(err)
		}
	}

	if newEmail == "" {
		return nil
	}

	if err := u.Cognito.UpdateEmail(ctx, user.Email, newEmail); err != nil {
		return utils.MapCognitoError(err)
	}

	// The username follows the email unless the user picked another one
	if user.Username == user.Email {
		user.Username = newEmail
	}
	user.Email = newEmail
	user.UpdatedAt = utils.NowUTC()

	ok, err := u.UserRepo.Update(user)
	if errors.Is(err, repository.ErrDuplicate) {
		return apierror.IDPExistingEmailError
	}

	if err != nil {
		log.Errorf("failed to update user %s: %v", id, err)
		return apierror.InternalServerError
	}

	if !ok {
		return apierror.NotFoundError
	}
	return nil
}

// DeleteUser removes the account from Cognito and the user with all their
// rates from our database. Scores of the rated companies are recomputed.
func (u *UserService) DeleteUser(ctx context.Context, actor *entity.User, id string) apierror.ErrorResponse {
	if apierr := u.policy.CanModifyAccount(actor, id); apierr != nil {
		return apierr
	}

	user, apierr := u.fetchUser(id)
	if apierr != nil {
		return apierr
	}

	if user == nil {
		return apierror.NotFoundError
	}

	if u.Cognito != nil {
		var notFound *types.UserNotFoundException
		err := u.Cognito.AdminDeleteUser(ctx, user.Email)
		if err != nil && !errors.As(err, &notFound) {
			return utils.MapCognitoError(err)
		}
	}

	changes, err := u.UserRepo.Delete(id)
	if errors.Is(err, repository.ErrNotFound) {
		return apierror.NotFoundError
	}

	if err != nil {
		log.Errorf("failed to delete user %s: %v", id, err)
		return apierror.InternalServerError
	}

	dispatchScoreChanges(u.Events, changes)
	if u.Sessions != nil {
		reason := "Account deleted"
		go u.Sessions.TerminateUserConnections(context.Background(), id, &events.ConnectionKill{
			Code:   contract.KillCodeAccountDeleted,
			Reason: &reason,
		})
	}
	return nil
}

func (u *UserService) fetchUser(id string) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to find user (%s) by id: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

func (u *UserService) fetchRates(userID string) ([]*entity.Rate, apierror.ErrorResponse) {
	rates, err := u.RateRepo.FindByUserID(userID)
	if err != nil {
		log.Errorf("failed to fetch rates of user %s: %v", userID, err)
		return nil, apierror.InternalServerError
	}
	return rates, nil
}
