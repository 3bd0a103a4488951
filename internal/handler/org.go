package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/orgs-directory-service/internal/model"
	"github.com/maxviazov/orgs-directory-service/internal/service"
	"github.com/maxviazov/orgs-directory-service/pkg/pagination"
	"github.com/maxviazov/orgs-directory-service/pkg/response"
)

type OrgHandler struct {
	svc service.OrgService
}

func NewOrgHandler(svc service.OrgService) *OrgHandler { return &OrgHandler{svc: svc} }

func (h *OrgHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/orgs")
	{
		g.GET("", h.list)
		// Every nested route reuses the :orgId wildcard name so Gin does not report conflicts.
		g.GET("/:orgId", h.getByID)
		g.GET("/:orgId/users", h.listUsers)
		g.PATCH("/:orgId/users/:uid", h.updateUser)
		g.DELETE("/:orgId/users/:uid", h.deleteUser)
		g.GET("/:orgId/labels", h.listLabels)
		g.POST("/:orgId/labels", h.createLabel)
	}
}

func pageParams(c *gin.Context) (pagination.Params, error) {
	return pagination.ParseParams(c.Query("page"), c.Query("per_page"))
}

func (h *OrgHandler) list(c *gin.Context) {
	p, err := pageParams(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.ListOrgs(c.Request.Context(), p)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *OrgHandler) getByID(c *gin.Context) {
	org, err := h.svc.GetOrg(c.Request.Context(), c.Param("orgId"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, response.Data[model.OrgSummary]{Data: org})
}

func (h *OrgHandler) listUsers(c *gin.Context) {
	p, err := pageParams(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.ListUsers(c.Request.Context(), c.Param("orgId"), p)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *OrgHandler) listLabels(c *gin.Context) {
	labels, err := h.svc.ListLabels(c.Request.Context(), c.Param("orgId"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, response.Data[[]string]{Data: labels})
}

type createLabelRequest struct {
	Label string `json:"label"`
}

func (h *OrgHandler) createLabel(c *gin.Context) {
	var req createLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "label", Message: "body must be {\"label\": string}"}}))
		return
	}
	org, err := h.svc.AddLabel(c.Request.Context(), c.Param("orgId"), req.Label)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, response.Saved(org))
}

func (h *OrgHandler) updateUser(c *gin.Context) {
	mask := service.ParseMask(c.Query("mask"))
	body := map[string]json.RawMessage{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "must be a JSON object"}}))
			return
		}
	}
	user, err := h.svc.UpdateUser(c.Request.Context(), c.Param("orgId"), c.Param("uid"), mask, body)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, response.Saved(user))
}

func (h *OrgHandler) deleteUser(c *gin.Context) {
	uid := c.Param("uid")
	if err := h.svc.DeleteUser(c.Request.Context(), c.Param("orgId"), uid); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, response.Deleted(uid))
}
