package clinic

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/domain/prescription"
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
	api.POST("/registrations", h.RegisterVisit)
	api.POST("/registrations/:id/diagnosis", h.SubmitDiagnosis)
	api.POST("/payments/:id/pay", h.PayBill)
	api.GET("/doctors/:id/waiting-list", h.WaitingList)
	api.GET("/patients/:id/pending-payments", h.PendingPayments)
	api.GET("/patients/:id/registrations", h.PatientRegistrations)
	api.GET("/patients/:id/prescriptions", h.PatientPrescriptions)
	api.GET("/patients/:id/payments", h.PatientPayments)
	api.GET("/low-stock", h.LowStockDrugs)
}

type registerVisitRequest struct {
	PatientID      string  `json:"patient_id" validate:"required,uuid"`
	DepartmentID   string  `json:"department_id" validate:"required,uuid"`
	DoctorID       *string `json:"doctor_id" validate:"omitempty,uuid"`
	ChiefComplaint *string `json:"chief_complaint"`
	PaymentMethod  *string `json:"payment_method"`
}

func (h *Handler) RegisterVisit(c echo.Context) error {
	var req registerVisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	patientID, _ := uuid.Parse(req.PatientID)
	departmentID, _ := uuid.Parse(req.DepartmentID)
	var doctorID *uuid.UUID
	if req.DoctorID != nil {
		id, err := uuid.Parse(*req.DoctorID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
		}
		doctorID = &id
	}

	reg, fee, err := h.svc.RegisterVisit(c.Request().Context(), patientID, departmentID, doctorID, req.ChiefComplaint, req.PaymentMethod)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"registration_id": reg.ID,
		"fee_amount":      fee,
	})
}

type submitDiagnosisRequest struct {
	Prescriptions []prescription.ItemSpec `json:"prescriptions" validate:"dive"`
	PaymentMethod *string                 `json:"payment_method"`
}

func (h *Handler) SubmitDiagnosis(c echo.Context) error {
	regID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req submitDiagnosisRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	paymentIDs, err := h.svc.SubmitDiagnosis(c.Request().Context(), regID, req.Prescriptions, req.PaymentMethod)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"payment_ids": paymentIDs})
}

func (h *Handler) PayBill(c echo.Context) error {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	result, err := h.svc.PayBill(c.Request().Context(), paymentID)
	if err != nil {
		return httperr.From(err)
	}
	if result.Shortfall != nil {
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"status":    "insufficient_stock",
			"drug_name": result.Shortfall.DrugName,
			"required":  result.Shortfall.Required,
			"available": result.Shortfall.Available,
		})
	}
	status := "paid"
	if result.AlreadyPaid {
		status = "already_paid"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  status,
		"payment": result.Payment,
	})
}

func (h *Handler) WaitingList(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.WaitingList(c.Request().Context(), doctorID)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items})
}

func (h *Handler) PendingPayments(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.PendingPayments(c.Request().Context(), patientID)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items})
}

func (h *Handler) PatientRegistrations(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.PatientRegistrations(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) PatientPrescriptions(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.PatientPrescriptions(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) PatientPayments(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.PatientPayments(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) LowStockDrugs(c echo.Context) error {
	threshold, _ := strconv.Atoi(c.QueryParam("threshold"))
	items, err := h.svc.LowStockDrugs(c.Request().Context(), threshold)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items})
}
