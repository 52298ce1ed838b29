package handler

import (
	"context"
	"net/http"
	"strings"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/utils"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	GetUsers() ([]*contract.UserResponse, apierror.ErrorResponse)
	GetUser(id string) (*contract.UserResponse, apierror.ErrorResponse)
	GetUserRates(id string) ([]*contract.RateResponse, apierror.ErrorResponse)
	CreateUser(ctx context.Context, req *contract.CreateUserRequest) (*contract.UserResponse, apierror.ErrorResponse)
	Login(ctx context.Context, req *contract.UserLoginRequest) (*contract.UserLoginResponse, apierror.ErrorResponse)
	UpdateUser(ctx context.Context, actor *entity.User, id string, req *contract.UpdateUserRequest) apierror.ErrorResponse
	DeleteUser(ctx context.Context, actor *entity.User, id string) apierror.ErrorResponse
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) GetUsers(c echo.Context) error {
	users, apierr := u.UserService.GetUsers()
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, users)
}

func (u *DefaultUserRoute) GetUser(c echo.Context) error {
	targetID, apierr := userIDParam(c)
	if apierr != nil {
		return writeError(c, apierr)
	}

	resp, apierr := u.UserService.GetUser(targetID)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (u *DefaultUserRoute) GetUserRates(c echo.Context) error {
	targetID, apierr := userIDParam(c)
	if apierr != nil {
		return writeError(c, apierr)
	}

	rates, apierr := u.UserService.GetUserRates(targetID)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, rates)
}

func (u *DefaultUserRoute) CreateUser(c echo.Context) error {
	var req contract.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, apierr := u.UserService.CreateUser(c.Request().Context(), &req)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return created(c, locationOf(c, "/api/Users/%s", user.ID), user)
}

func (u *DefaultUserRoute) Login(c echo.Context) error {
	var req contract.UserLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := u.UserService.Login(c.Request().Context(), &req)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (u *DefaultUserRoute) UpdateUser(c echo.Context) error {
	targetID, apierr := userIDParam(c)
	if apierr != nil {
		return writeError(c, apierr)
	}

	var req contract.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	actor := utils.OptionalUserFromContext(c)
	if apierr = u.UserService.UpdateUser(c.Request().Context(), actor, targetID, &req); apierr != nil {
		return writeError(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (u *DefaultUserRoute) DeleteUser(c echo.Context) error {
	targetID, apierr := userIDParam(c)
	if apierr != nil {
		return writeError(c, apierr)
	}

	actor := utils.OptionalUserFromContext(c)
	if apierr = u.UserService.DeleteUser(c.Request().Context(), actor, targetID); apierr != nil {
		return writeError(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func userIDParam(c echo.Context) (string, apierror.ErrorResponse) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return "", apierror.NewMissingParamError("id")
	}
	return id, nil
}
