package dto

// CreatePeriodRequest creates an academic period
type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"required"`
	Year      int    `json:"year" binding:"required,min=2000"`
	HalfYear  string `json:"halfYear" binding:"required,oneof=I II"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
}
