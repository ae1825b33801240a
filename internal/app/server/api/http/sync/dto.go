package sync

import (
	"time"

	"skusync/internal/domain/sync"
)

type planInput struct{}

type planOutput struct {
	Body PlanResponse
}

// PlanResponse план прогона с диагностикой по брендам и дублям
type PlanResponse struct {
	Total         int                 `json:"total" doc:"Товары без legacy_item_id"`
	Planned       int                 `json:"planned" doc:"Сколько товаров будет обработано"`
	SkippedBlank  int                 `json:"skipped_blank"`
	Collapsed     int                 `json:"collapsed"`
	Brands        map[string]int      `json:"brands,omitempty"`
	DuplicateSKUs map[string][]string `json:"duplicate_skus,omitempty"`
	VariantGroups []GroupInfo         `json:"variant_groups,omitempty"`
}

type GroupInfo struct {
	BaseSKU        string   `json:"base_sku"`
	Representative string   `json:"representative_sku"`
	Reason         string   `json:"reason" enum:"single,exact_base,earliest"`
	Members        []string `json:"member_skus"`
}

type runInput struct {
	DryRun bool `query:"dry_run" doc:"Разрешать и проверять без записи"`
}

type runOutput struct {
	Body RunResponse
}

type listRunsInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"20"`
}

type listRunsOutput struct {
	Body ListRunsResponse
}

type ListRunsResponse struct {
	Runs []RunResponse `json:"runs"`
}

// RunResponse итоги прогона
type RunResponse struct {
	ID          string        `json:"id"`
	State       string        `json:"state" enum:"idle,authenticating,planning,processing,done,aborted"`
	DryRun      bool          `json:"dry_run"`
	Cancelled   bool          `json:"cancelled"`
	Planned     int           `json:"planned"`
	Processed   int           `json:"processed"`
	Updated     int           `json:"updated"`
	NotFound    int           `json:"not_found"`
	Conflict    int           `json:"conflict"`
	Error       int           `json:"error"`
	SuccessRate float64       `json:"success_rate"`
	Reason      string        `json:"reason,omitempty"`
	StartedAt   time.Time     `json:"started_at" format:"date-time"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty" format:"date-time"`
	Results     []sync.Result `json:"results,omitempty"`
}

func toPlanResponse(p *sync.Plan) PlanResponse {
	resp := PlanResponse{
		Total:         p.Total,
		Planned:       len(p.Items),
		SkippedBlank:  p.SkippedBlank,
		Collapsed:     p.Collapsed,
		Brands:        p.Brands(),
		DuplicateSKUs: p.DuplicateSKUs(),
	}
	for _, g := range p.VariantGroups() {
		info := GroupInfo{
			BaseSKU:        g.BaseSKU,
			Representative: g.Representative.SKU,
			Reason:         string(g.Reason),
		}
		for _, m := range g.Members {
			info.Members = append(info.Members, m.SKU)
		}
		resp.VariantGroups = append(resp.VariantGroups, info)
	}
	return resp
}

func toRunResponse(s *sync.Summary) RunResponse {
	resp := RunResponse{
		ID:          s.ID,
		State:       string(s.State),
		DryRun:      s.DryRun,
		Cancelled:   s.Cancelled,
		Planned:     s.Planned,
		Processed:   s.Processed(),
		Updated:     s.Updated,
		NotFound:    s.NotFound,
		Conflict:    s.Conflict,
		Error:       s.Error,
		SuccessRate: s.SuccessRate(),
		Reason:      s.Reason,
		StartedAt:   s.StartedAt,
		Results:     s.Results,
	}
	if !s.FinishedAt.IsZero() {
		finished := s.FinishedAt
		resp.FinishedAt = &finished
	}
	return resp
}
