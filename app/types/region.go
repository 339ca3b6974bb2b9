package types

import (
	"strings"

	"github.com/labstack/echo/v4"
)

type GetRegionPreferenceRequest struct {
	UserId string `query:"user_id" json:"user_id" validate:"required"`
}

func NewGetRegionPreferenceRequestFromContext(ctx echo.Context) (*GetRegionPreferenceRequest, error) {
	return &GetRegionPreferenceRequest{UserId: strings.TrimSpace(ctx.QueryParam("user_id"))}, nil
}

func (r *GetRegionPreferenceRequest) Validate() error {
	return validateStruct(r)
}

func (r *GetRegionPreferenceRequest) GetUserId() string {
	return r.UserId
}

type SetRegionPreferenceRequest struct {
	UserId string `json:"user_id" validate:"required"`
	Region string `json:"region" validate:"required,oneof=PT BR US ES FR GB"`
}

func NewSetRegionPreferenceRequestFromContext(ctx echo.Context) (*SetRegionPreferenceRequest, error) {
	var body SetRegionPreferenceRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.UserId = strings.TrimSpace(body.UserId)
	body.Region = normalizeRegion(body.Region)
	return &body, nil
}

func (r *SetRegionPreferenceRequest) Validate() error {
	return validateStruct(r)
}

func (r *SetRegionPreferenceRequest) GetUserId() string {
	return r.UserId
}

func (r *SetRegionPreferenceRequest) GetRegion() string {
	return r.Region
}
