package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cvforge/internal/database"
)

type CertificationHandler struct {
	db *gorm.DB
}

func NewCertificationHandler(db *gorm.DB) *CertificationHandler {
	return &CertificationHandler{db: db}
}

// List accepts either resumeId or userId scoping; resumeId wins when
// both are present.
func (h *CertificationHandler) List(c *gin.Context) {
	resumeID, resumeErr := uintQuery(c, "resumeId")
	userID, userErr := uintQuery(c, "userId")
	if resumeErr != nil && userErr != nil {
		BadRequest(c, "resumeId or userId is required")
		return
	}
	params := parseListParams(c)

	query := h.db.WithContext(c.Request.Context()).Model(&database.Certification{})
	if resumeErr == nil {
		query = query.Where("resume_id = ?", resumeID)
	} else {
		query = query.Where("user_id = ?", userID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(issuer) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, err)
		return
	}

	var certs []database.Certification
	if err := query.
		Order("order_index ASC").Order(nullsLastDesc("date")).
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&certs).Error; err != nil {
		Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": certs,
		"pagination": gin.H{
			"total":  total,
			"limit":  params.Limit,
			"offset": params.Offset,
		},
	})
}

func (h *CertificationHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid certification id")
		return
	}

	var cert database.Certification
	if err := h.db.WithContext(c.Request.Context()).First(&cert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "certification not found")
			return
		}
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, cert)
}

type certificationRequest struct {
	ResumeID      uint    `json:"resumeId"`
	UserID        uint    `json:"userId"`
	Name          string  `json:"name"`
	Issuer        *string `json:"issuer"`
	Date          *string `json:"date"`
	CredentialURL *string `json:"credentialUrl"`
	OrderIndex    *int    `json:"orderIndex"`
}

func (h *CertificationHandler) Create(c *gin.Context) {
	var req certificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.ResumeID == 0 || req.UserID == 0 || req.Name == "" {
		BadRequest(c, "resumeId, userId and name are required")
		return
	}

	cert := database.Certification{
		ResumeID:      req.ResumeID,
		UserID:        req.UserID,
		Name:          req.Name,
		Issuer:        trimPtr(req.Issuer),
		Date:          trimPtr(req.Date),
		CredentialURL: trimPtr(req.CredentialURL),
	}
	if req.OrderIndex != nil {
		cert.OrderIndex = *req.OrderIndex
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&cert).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusCreated, cert)
}

type certificationUpdateRequest struct {
	Name          *string `json:"name"`
	Issuer        *string `json:"issuer"`
	Date          *string `json:"date"`
	CredentialURL *string `json:"credentialUrl"`
	OrderIndex    *int    `json:"orderIndex"`
}

func (h *CertificationHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid certification id")
		return
	}
	var req certificationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()

	var cert database.Certification
	if err := h.db.WithContext(ctx).First(&cert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "certification not found")
			return
		}
		Internal(c, err)
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			BadRequest(c, "name must not be empty")
			return
		}
		updates["name"] = name
	}
	if req.Issuer != nil {
		updates["issuer"] = trimPtr(req.Issuer)
	}
	if req.Date != nil {
		updates["date"] = trimPtr(req.Date)
	}
	if req.CredentialURL != nil {
		updates["credential_url"] = trimPtr(req.CredentialURL)
	}
	if req.OrderIndex != nil {
		updates["order_index"] = *req.OrderIndex
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(&cert).Updates(updates).Error; err != nil {
			Internal(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, cert)
}

func (h *CertificationHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid certification id")
		return
	}
	ctx := c.Request.Context()

	var cert database.Certification
	if err := h.db.WithContext(ctx).First(&cert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "certification not found")
			return
		}
		Internal(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Delete(&database.Certification{}, id).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, cert)
}
