package catalog

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/httperr"
)

type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/departments", h.ListDepartments)
	api.POST("/departments", h.AddDepartment)
	api.GET("/departments/:id/doctors", h.ListDoctorsByDepartment)
	api.POST("/doctors", h.AddDoctor)
	api.GET("/doctors/:id", h.GetDoctor)
}

type addDepartmentRequest struct {
	Name        string  `json:"department_name" validate:"required"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Phone       *string `json:"phone"`
}

func (h *Handler) AddDepartment(c echo.Context) error {
	var req addDepartmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d := &Department{Name: req.Name, Description: req.Description, Location: req.Location, Phone: req.Phone}
	if err := h.svc.AddDepartment(c.Request().Context(), d); err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) ListDepartments(c echo.Context) error {
	items, err := h.svc.ListDepartments(c.Request().Context())
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items})
}

type addDoctorRequest struct {
	Name           string  `json:"doctor_name" validate:"required"`
	Gender         *string `json:"gender"`
	Title          *string `json:"title"`
	DepartmentID   string  `json:"department_id" validate:"required,uuid"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Specialization *string `json:"specialization"`
}

func (h *Handler) AddDoctor(c echo.Context) error {
	var req addDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	deptID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid department_id")
	}
	d := &Doctor{
		Name:           req.Name,
		Gender:         req.Gender,
		Title:          req.Title,
		DepartmentID:   deptID,
		Phone:          req.Phone,
		Email:          req.Email,
		Specialization: req.Specialization,
	}
	if err := h.svc.AddDoctor(c.Request().Context(), d); err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDoctorsByDepartment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListDoctorsByDepartment(c.Request().Context(), id)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items})
}
