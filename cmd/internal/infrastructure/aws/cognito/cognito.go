package cognitoclient

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// User is the default user struct for all basic Cognito operations.
type User struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
}

// UserLogin defines the standard structure for logging in to the application.
type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthCreate represents the response of Cognito sign in approval.
type AuthCreate struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int32  `json:"expires_in"`
}

type CognitoInterface interface {
	// SignUp registers and confirms the account, returning its "sub".
	SignUp(ctx context.Context, user *User) (string, error)
	SignIn(ctx context.Context, user *UserLogin) (*AuthCreate, error)
	ChangePassword(ctx context.Context, email, current, proposed string) error
	UpdateEmail(ctx context.Context, email, newEmail string) error
	AdminDeleteUser(ctx context.Context, email string) error
}

var errNoAuthResult = errors.New("cognito returned no authentication result")

type cognitoClient struct {
	client      *cognito.Client
	appClientID string
	userPoolID  string
}

func NewCognitoClient(cfg aws.Config, appClientID, userPoolID string) CognitoInterface {
	return &cognitoClient{
		client:      cognito.NewFromConfig(cfg),
		appClientID: appClientID,
		userPoolID:  userPoolID,
	}
}

// SignUp creates a new user row on Cognito and return its "sub" (the UUID).
// The account is confirmed right away, registering is enough to log in.
func (c *cognitoClient) SignUp(ctx context.Context, user *User) (string, error) {
	attrs := []types.AttributeType{
		{Name: aws.String("email"), Value: aws.String(user.Email)},
	}
	if user.PhoneNumber != "" {
		attrs = append(attrs, types.AttributeType{
			Name:  aws.String("phone_number"),
			Value: aws.String(user.PhoneNumber),
		})
	}

	out, err := c.client.SignUp(ctx, &cognito.SignUpInput{
		ClientId:       aws.String(c.appClientID),
		Username:       aws.String(user.Email),
		Password:       aws.String(user.Password),
		UserAttributes: attrs,
	})
	if err != nil {
		return "", err
	}

	_, err = c.client.AdminConfirmSignUp(ctx, &cognito.AdminConfirmSignUpInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(user.Email),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.UserSub), nil
}

func (c *cognitoClient) SignIn(ctx context.Context, user *UserLogin) (*AuthCreate, error) {
	result, err := c.client.InitiateAuth(ctx, &cognito.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": user.Email,
			"PASSWORD": user.Password,
		},
		ClientId: aws.String(c.appClientID),
	})
	if err != nil {
		return nil, err
	}

	auth := result.AuthenticationResult
	if auth == nil {
		return nil, errNoAuthResult
	}
	return &AuthCreate{
		IDToken:      aws.ToString(auth.IdToken),
		AccessToken:  aws.ToString(auth.AccessToken),
		RefreshToken: aws.ToString(auth.RefreshToken),
		ExpiresIn:    auth.ExpiresIn,
	}, nil
}

// ChangePassword signs in with the current password first, so a wrong
// current password fails as a credentials mismatch.
func (c *cognitoClient) ChangePassword(ctx context.Context, email, current, proposed string) error {
	auth, err := c.SignIn(ctx, &UserLogin{Email: email, Password: current})
	if err != nil {
		return err
	}

	_, err = c.client.ChangePassword(ctx, &cognito.ChangePasswordInput{
		AccessToken:      aws.String(auth.AccessToken),
		PreviousPassword: aws.String(current),
		ProposedPassword: aws.String(proposed),
	})
	return err
}

func (c *cognitoClient) UpdateEmail(ctx context.Context, email, newEmail string) error {
	_, err := c.client.AdminUpdateUserAttributes(ctx, &cognito.AdminUpdateUserAttributesInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(email),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(newEmail)},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
		},
	})
	return err
}

func (c *cognitoClient) AdminDeleteUser(ctx context.Context, email string) error {
	_, err := c.client.AdminDeleteUser(ctx, &cognito.AdminDeleteUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(email),
	})
	return err
}
