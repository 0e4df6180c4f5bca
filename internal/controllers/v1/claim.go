package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/claims"
	"github.com/homeledger/backend/internal/httputil"
	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

type ClaimListResponse struct {
	Data []ClaimView `json:"data"`
}

type ClaimResponse struct {
	Data ClaimView `json:"data"`
}

// ClaimView is a claim with its derived status rendered into the
// response.
type ClaimView struct {
	models.Claim
	Status models.ClaimStatus `json:"status" example:"in_progress"`
}

func newClaimView(claim models.Claim) ClaimView {
	return ClaimView{Claim: claim, Status: claim.Status()}
}

// RegisterClaimRoutes registers the routes for claims with the
// RouterGroup that is passed.
func (co Controller) RegisterClaimRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetClaims)
	r.POST("", co.CreateClaim)

	r.OPTIONS("/:claimId", httputil.OptionsGetDelete)
	r.GET("/:claimId", co.GetClaim)
	r.DELETE("/:claimId", co.DeleteClaim)

	r.POST("/:claimId/convert", co.ConvertClaim)
	r.POST("/:claimId/bill-paid", co.MarkClaimBillPaid)

	r.POST("/:claimId/submissions", co.AddSubmission)
	r.PATCH("/:claimId/submissions/:submissionId", co.UpdateSubmission)
	r.DELETE("/:claimId/submissions/:submissionId", co.RemoveSubmission)

	r.POST("/:claimId/documents", co.AddClaimDocument)
	r.DELETE("/:claimId/documents/:documentId", co.RemoveClaimDocument)
}

// GetClaims returns all claims. The search query parameter filters by
// family member and category name.
func (co Controller) GetClaims(c *gin.Context) {
	list, err := co.Claims.Claims(c.Query("search"))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	views := make([]ClaimView, 0, len(list))
	for _, claim := range list {
		views = append(views, newClaimView(claim))
	}

	c.JSON(http.StatusOK, ClaimListResponse{Data: views})
}

// CreateClaim creates a new claim. With an expected block the claim is
// stored as an expected expense without submissions; otherwise it gets
// the next claim number and its submission waterfall.
func (co Controller) CreateClaim(c *gin.Context) {
	var data struct {
		FamilyMemberID uuid.UUID               `json:"familyMemberId"`
		CategoryID     uuid.UUID               `json:"categoryId"`
		ServiceDate    types.Date              `json:"serviceDate" example:"2025-08-14"`
		TotalAmount    models.Amount           `json:"totalAmount" example:"150.00"`
		Expected       *models.ExpectedExpense `json:"expected,omitempty"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	claim, err := co.Claims.Create(claims.CreateInput{
		FamilyMemberID: data.FamilyMemberID,
		CategoryID:     data.CategoryID,
		ServiceDate:    data.ServiceDate,
		TotalAmount:    data.TotalAmount,
		Expected:       data.Expected,
	})
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, ClaimResponse{Data: newClaimView(claim)})
}

// GetClaim returns a claim by its ID.
func (co Controller) GetClaim(c *gin.Context) {
	id, err := httputil.ParseID(c, "claimId")
	if err != nil {
		return
	}

	claim, err := co.Claims.Claim(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, ClaimResponse{Data: newClaimView(claim)})
}

// DeleteClaim deletes a claim.
func (co Controller) DeleteClaim(c *gin.Context) {
	id, err := httputil.ParseID(c, "claimId")
	if err != nil {
		return
	}

	if err := co.Claims.Delete(id); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ConvertClaim turns an expected claim into an actual one.
func (co Controller) ConvertClaim(c *gin.Context) {
	id, err := httputil.ParseID(c, "claimId")
	if err != nil {
		return
	}

	var data struct {
		ServiceDate types.Date    `json:"serviceDate" example:"2025-08-14"`
		TotalAmount models.Amount `json:"totalAmount" example:"215.00"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	claim, err := co.Claims.Convert(id, data.ServiceDate, data.TotalAmount)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, ClaimResponse{Data: newClaimView(claim)})
}

// MarkClaimBillPaid records that the provider's bill was paid.
func (co Controller) MarkClaimBillPaid(c *gin.Context) {
	id, err := httputil.ParseID(c, "claimId")
	if err != nil {
		return
	}

	var data struct {
		Date types.Date `json:"date" example:"2025-08-20"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	claim, err := co.Claims.MarkBillPaid(id, data.Date)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, ClaimResponse{Data: newClaimView(claim)})
}

// AddSubmission appends a submission for another plan to the claim.
func (co Controller) AddSubmission(c *gin.Context) {
	id, err := httputil.ParseID(c, "claimId")
	if err != nil {
		return
	}

	var data struct {
		PlanID uuid.UUID `json:"planId"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	claim, err := co.Claims.AddSubmission(id, data.PlanID)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, ClaimResponse{Data: newClaimView(claim)})
}

// UpdateSubmission patches one submission. Resolving it activates the
// next insurer in the waterfall.
func (co Controller) UpdateSubmission(c *gin.Context) {
	id, err := httputil.ParseID(c, "claimId")
	if err != nil {
		return
	}
	submissionID, err := httputil.ParseID(c, "submissionId")
	if err != nil {
		return
	}

	var data struct {
		Status           *models.SubmissionStatus `json:"status,omitempty"`
		AmountClaimed    *models.Amount           `json:"amountClaimed,omitempty"`
		AmountReimbursed *models.Amount           `json:"amountReimbursed,omitempty"`
		DateSubmitted    *types.Date              `json:"dateSubmitted,omitempty"`
		DateResolved     *types.Date              `json:"dateResolved,omitempty"`
		DocumentIDs      *[]uuid.UUID             `json:"documentIds,omitempty"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	claim, err := co.Claims.UpdateSubmission(id, submissionID, claims.SubmissionPatch{
		Status:           data.Status,
		AmountClaimed:    data.AmountClaimed,
		AmountReimbursed: data.AmountReimbursed,
		DateSubmitted:    data.DateSubmitted,
		DateResolved:     data.DateResolved,
		DocumentIDs:      data.DocumentIDs,
	})
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, ClaimResponse{Data: newClaimView(claim)})
}

// RemoveSubmission deletes an unresolved submission.
func (co Controller) RemoveSubmission(c *gin.Context) {
	id, err := httputil.ParseID(c, "claimId")
	if err != nil {
		return
	}
	submissionID, err := httputil.ParseID(c, "submissionId")
	if err != nil {
		return
	}

	claim, err := co.Claims.RemoveSubmission(id, submissionID)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, ClaimResponse{Data: newClaimView(claim)})
}

// AddClaimDocument attaches a document to a claim.
func (co Controller) AddClaimDocument(c *gin.Context) {
	id, err := httputil.ParseID(c, "claimId")
	if err != nil {
		return
	}

	var data struct {
		Name string `json:"name" example:"EOB 2025-08-14.pdf"`
		Note string `json:"note,omitempty"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	claim, err := co.Claims.AddDocument(id, data.Name, data.Note)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, ClaimResponse{Data: newClaimView(claim)})
}

// RemoveClaimDocument detaches a document from a claim.
func (co Controller) RemoveClaimDocument(c *gin.Context) {
	id, err := httputil.ParseID(c, "claimId")
	if err != nil {
		return
	}
	documentID, err := httputil.ParseID(c, "documentId")
	if err != nil {
		return
	}

	claim, err := co.Claims.RemoveDocument(id, documentID)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, ClaimResponse{Data: newClaimView(claim)})
}
