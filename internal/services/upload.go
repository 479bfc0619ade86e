package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gridstor/curvecast/internal/models"
	"github.com/gridstor/curvecast/internal/utils"
)

// flowDateLayout is the date format uploads use for price points.
const flowDateLayout = "2006-01-02"

// CurveDetails carries the instance-level metadata of an upload.
type CurveDetails struct {
	InstanceVersion string `json:"instanceVersion" binding:"required"`
	CreatedBy       string `json:"createdBy" binding:"required"`
	CurveType       string `json:"curveType" binding:"required"`
	Commodity       string `json:"commodity"`
	Scenario        string `json:"scenario" binding:"required"`
	Units           string `json:"units"`
	Granularity     string `json:"granularity"`
	DegradationType string `json:"degradationType"`
}

// PricePoint is one uploaded (date, value) row.
type PricePoint struct {
	FlowDateStart string   `json:"flow_date_start" binding:"required"`
	Value         *float64 `json:"value" binding:"required"`
}

// UploadRequest is the payload of a curve upload.
type UploadRequest struct {
	CurveDetails CurveDetails `json:"curveDetails" binding:"required"`
	PricePoints  []PricePoint `json:"pricePoints" binding:"required"`
}

// UploadValidator checks upload batches before they reach persistence.
type UploadValidator struct {
	minValue     decimal.Decimal
	maxValue     decimal.Decimal
	maxBatchSize int
}

// NewUploadValidator creates a validator with the given value bounds and
// batch size limit.
func NewUploadValidator(minValue, maxValue float64, maxBatchSize int) *UploadValidator {
	return &UploadValidator{
		minValue:     decimal.NewFromFloat(minValue),
		maxValue:     decimal.NewFromFloat(maxValue),
		maxBatchSize: maxBatchSize,
	}
}

// Validate checks every row of an upload and builds the instance and points
// to persist. Any malformed row fails the whole batch: the returned
// *utils.BatchError lists one message per bad row and nothing is handed to
// persistence. New instances start in DRAFT.
func (v *UploadValidator) Validate(definitionID string, req UploadRequest) (*models.CurveInstance, []models.CurveDataPoint, error) {
	batchErr := &utils.BatchError{}

	if len(req.PricePoints) == 0 {
		return nil, nil, utils.NewValidationError("upload contains no price points")
	}
	if v.maxBatchSize > 0 && len(req.PricePoints) > v.maxBatchSize {
		return nil, nil, utils.NewValidationErrorf("upload exceeds max batch size of %d points", v.maxBatchSize)
	}

	instance := &models.CurveInstance{
		ID:              uuid.New().String(),
		DefinitionID:    definitionID,
		InstanceVersion: req.CurveDetails.InstanceVersion,
		Status:          models.InstanceStatusDraft,
		CreatedAt:       time.Now().UTC(),
		CreatedBy:       req.CurveDetails.CreatedBy,
		Provenance:      models.ResolveProvenanceTier(req.CurveDetails.CreatedBy),
		CurveTypes:      []string{req.CurveDetails.CurveType},
		Commodities:     []string{req.CurveDetails.Commodity},
		Scenarios:       []string{req.CurveDetails.Scenario},
		Granularity:     models.Granularity(req.CurveDetails.Granularity),
		DegradationType: req.CurveDetails.DegradationType,
	}

	points := make([]models.CurveDataPoint, 0, len(req.PricePoints))
	for i, pp := range req.PricePoints {
		ts, err := time.Parse(flowDateLayout, pp.FlowDateStart)
		if err != nil {
			batchErr.Add("row %d: invalid flow_date_start %q: expected YYYY-MM-DD", i+1, pp.FlowDateStart)
			continue
		}
		if pp.Value == nil {
			batchErr.Add("row %d: value is required", i+1)
			continue
		}
		value := decimal.NewFromFloat(*pp.Value)
		if value.LessThan(v.minValue) || value.GreaterThan(v.maxValue) {
			batchErr.Add("row %d: value %s out of range [%s, %s]", i+1, value, v.minValue, v.maxValue)
			continue
		}
		points = append(points, models.CurveDataPoint{
			ID:         uuid.New().String(),
			InstanceID: instance.ID,
			Timestamp:  ts,
			Value:      &value,
			CurveType:  req.CurveDetails.CurveType,
			Commodity:  req.CurveDetails.Commodity,
			Scenario:   req.CurveDetails.Scenario,
			Units:      req.CurveDetails.Units,
		})
	}

	if batchErr.HasErrors() {
		return nil, nil, batchErr
	}
	return instance, points, nil
}
