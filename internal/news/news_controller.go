package news

import (
	"net/http"

	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/responses"
	"github.com/gin-gonic/gin"
)

type NewsController struct {
	service *NewsService
}

func NewNewsController(service *NewsService) *NewsController {
	return &NewsController{service: service}
}

// CreateNews godoc
// @Summary Submit a news post for review
// @Tags News
// @Accept json
// @Produce json
// @Param news body CreateNewsRequest true "Post"
// @Success 201 {object} responses.SuccessResponse{data=News}
// @Security ApiKeyAuth
// @Router /news [post]
func (nc *NewsController) CreateNews(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	var req CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendBindError(c, err)
		return
	}
	n, err := nc.service.CreateNews(c.Request.Context(), actor, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "News submitted for approval", n)
}

// GetApprovedNews godoc
// @Summary Public news feed
// @Tags News
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]News}
// @Router /news [get]
func (nc *NewsController) GetApprovedNews(c *gin.Context) {
	items, err := nc.service.ListApprovedNews()
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "News retrieved successfully", items)
}

// GetPendingNews godoc
// @Summary News awaiting moderation
// @Tags News
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]News}
// @Security ApiKeyAuth
// @Router /news/pending [get]
func (nc *NewsController) GetPendingNews(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	items, err := nc.service.ListPendingNews(actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Pending news retrieved successfully", items)
}

// GetMyNews godoc
// @Summary Posts by the current account
// @Tags News
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]News}
// @Security ApiKeyAuth
// @Router /news/mine [get]
func (nc *NewsController) GetMyNews(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	items, err := nc.service.ListMyNews(actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "News retrieved successfully", items)
}

// GetNewsByID godoc
// @Summary Get an approved news post
// @Tags News
// @Produce json
// @Param id path int true "News ID"
// @Success 200 {object} responses.SuccessResponse{data=News}
// @Failure 404 {object} responses.ErrorResponse
// @Router /news/{id} [get]
func (nc *NewsController) GetNewsByID(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	n, err := nc.service.GetNews(common.Actor{}, id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "News retrieved successfully", n)
}

// UpdateNews godoc
// @Summary Edit a pending post
// @Tags News
// @Accept json
// @Produce json
// @Param id path int true "News ID"
// @Param news body UpdateNewsRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse{data=News}
// @Failure 409 {object} responses.ErrorResponse "Already moderated"
// @Security ApiKeyAuth
// @Router /news/{id} [put]
func (nc *NewsController) UpdateNews(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendBindError(c, err)
		return
	}
	n, err := nc.service.UpdateNews(c.Request.Context(), actor, id, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "News updated successfully", n)
}

// ApproveNews godoc
// @Summary Approve a post
// @Tags News
// @Produce json
// @Param id path int true "News ID"
// @Success 200 {object} responses.SuccessResponse{data=News}
// @Security ApiKeyAuth
// @Router /news/{id}/approve [put]
func (nc *NewsController) ApproveNews(c *gin.Context) {
	nc.moderate(c, true)
}

// RejectNews godoc
// @Summary Reject a post
// @Tags News
// @Produce json
// @Param id path int true "News ID"
// @Success 200 {object} responses.SuccessResponse{data=News}
// @Security ApiKeyAuth
// @Router /news/{id}/reject [put]
func (nc *NewsController) RejectNews(c *gin.Context) {
	nc.moderate(c, false)
}

func (nc *NewsController) moderate(c *gin.Context, approve bool) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var n *News
	msg := "News approved"
	if approve {
		n, err = nc.service.ApproveNews(c.Request.Context(), actor, id)
	} else {
		n, err = nc.service.RejectNews(c.Request.Context(), actor, id)
		msg = "News rejected"
	}
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, msg, n)
}

// DeleteNews godoc
// @Summary Delete a post
// @Tags News
// @Produce json
// @Param id path int true "News ID"
// @Success 200 {object} responses.SuccessResponse
// @Security ApiKeyAuth
// @Router /news/{id} [delete]
func (nc *NewsController) DeleteNews(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := nc.service.DeleteNews(c.Request.Context(), actor, id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "News deleted successfully", nil)
}
