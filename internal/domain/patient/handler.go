package patient

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/httperr"
	"github.com/hms/hms/pkg/pagination"
)

type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.List)
	api.POST("/patients", h.AddOrFind)
	api.GET("/patients/by-national-id/:nid", h.FindByNationalID)
	api.GET("/patients/:id", h.Get)
}

type addPatientRequest struct {
	Name        string  `json:"patient_name" validate:"required"`
	Gender      string  `json:"gender" validate:"required"`
	DateOfBirth string  `json:"date_of_birth" validate:"required"`
	Phone       string  `json:"phone" validate:"required"`
	Address     *string `json:"address"`
	NationalID  string  `json:"national_id" validate:"required"`
}

func (h *Handler) AddOrFind(c echo.Context) error {
	var req addPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
	}

	p := &Patient{
		Name:        req.Name,
		Gender:      req.Gender,
		DateOfBirth: dob,
		Phone:       req.Phone,
		Address:     req.Address,
		NationalID:  req.NationalID,
	}
	p, created, err := h.svc.AddOrFind(c.Request().Context(), p)
	if err != nil {
		return httperr.From(err)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) FindByNationalID(c echo.Context) error {
	p, err := h.svc.FindByNationalID(c.Request().Context(), c.Param("nid"))
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
