package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	ordersvc "github.com/soorihai2/ssksilks-sub001/internal/service/order"
)

type orderHandlers struct {
	svc      OrderService
	settings SettingsStore
	logger   logrus.FieldLogger
}

func (h *orderHandlers) create(c *gin.Context) {
	var in ordersvc.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid JSON body"})
		return
	}
	res, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *orderHandlers) verify(c *gin.Context) {
	var in ordersvc.VerifyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid JSON body"})
		return
	}
	res, err := h.svc.VerifyPayment(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Payment verified"
	if res.AlreadyPaid {
		message = "Payment already verified"
	}
	body := gin.H{
		"message":     message,
		"order":       res.Order,
		"emailStatus": res.EmailStatus,
	}
	if res.EmailError != "" {
		body["emailError"] = res.EmailError
	}
	c.JSON(http.StatusOK, body)
}

func (h *orderHandlers) list(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *orderHandlers) get(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *orderHandlers) updateStatus(c *gin.Context) {
	var in statusRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "status is required"})
		return
	}
	o, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *orderHandlers) createPOS(c *gin.Context) {
	var in ordersvc.POSInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid JSON body"})
		return
	}
	res, err := h.svc.CreatePOS(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
