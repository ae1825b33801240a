package sync

import (
	"time"

	"skusync/internal/domain/catalog"
	"skusync/internal/domain/item"
)

// State состояние прогона синхронизации
type State string

const (
	StateIdle           State = "idle"
	StateAuthenticating State = "authenticating"
	StatePlanning       State = "planning"
	StateProcessing     State = "processing"
	StateDone           State = "done"
	StateAborted        State = "aborted"
)

// Outcome итог обработки одного товара
type Outcome string

const (
	OutcomeUpdated  Outcome = "updated"
	OutcomeNotFound Outcome = "not_found"
	OutcomeConflict Outcome = "conflict"
	OutcomeError    Outcome = "error"
)

// Match каким способом найдена позиция каталога
type Match string

const (
	MatchExact Match = "exact"
	MatchBase  Match = "base"
)

// SelectReason почему товар выбран представителем группы
type SelectReason string

const (
	SelectSingle    SelectReason = "single"
	SelectExactBase SelectReason = "exact_base"
	SelectEarliest  SelectReason = "earliest"
)

// ServiceConfig конфигурация сервиса синхронизации
type ServiceConfig struct {
	BatchSize        int           `json:"batch_size"`
	// InterRecordDelay минимальный интервал между запросами к каталогу
	InterRecordDelay time.Duration `json:"inter_record_delay"`
	InterBatchDelay  time.Duration `json:"inter_batch_delay"`
	ProgressEvery    int           `json:"progress_every"`
}

// RunOptions параметры одного прогона
type RunOptions struct {
	DryRun bool
}

// Resolution найденная позиция каталога
type Resolution struct {
	Item       *catalog.Item
	Match      Match
	QueriedSKU string
}

// Verdict решение ConflictGuard
type Verdict struct {
	Approved bool
	Owner    *item.Item
}

// Group товары с общим базовым артикулом
type Group struct {
	BaseSKU        string       `json:"base_sku"`
	Members        []item.Item  `json:"members"`
	Representative item.Item    `json:"representative"`
	Reason         SelectReason `json:"reason"`
}

// Plan результат дедупликации
type Plan struct {
	// Items по одному представителю на группу, в порядке первого появления группы
	Items        []item.Item `json:"items"`
	Groups       []Group     `json:"groups"`
	Total        int         `json:"total"`
	SkippedBlank int         `json:"skipped_blank"`
	// Collapsed сколько товаров исключено из прогона как варианты уже выбранного представителя
	Collapsed int `json:"collapsed"`
}

// Result итог по одному товару
type Result struct {
	ItemID   string  `json:"item_id"`
	SKU      string  `json:"sku"`
	Outcome  Outcome `json:"outcome"`
	LegacyID string  `json:"legacy_item_id,omitempty"`
	Match    Match   `json:"match,omitempty"`
	Owner    string  `json:"owner_sku,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Summary итоги прогона
type Summary struct {
	ID         string    `json:"id"`
	State      State     `json:"state"`
	DryRun     bool      `json:"dry_run"`
	Cancelled  bool      `json:"cancelled"`
	Planned    int       `json:"planned"`
	Updated    int       `json:"updated"`
	NotFound   int       `json:"not_found"`
	Conflict   int       `json:"conflict"`
	Error      int       `json:"error"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Reason     string    `json:"reason,omitempty"`
	Results    []Result  `json:"results,omitempty"`
}

// MaxStoredResults сколько построчных результатов сохраняется в истории прогона
const MaxStoredResults = 500

// Notable результаты, требующие внимания (все, кроме updated), не больше MaxStoredResults
func (s *Summary) Notable() []Result {
	notable := make([]Result, 0)
	for _, r := range s.Results {
		if r.Outcome == OutcomeUpdated {
			continue
		}
		if len(notable) == MaxStoredResults {
			break
		}
		notable = append(notable, r)
	}
	return notable
}

// Processed сколько товаров обработано (при отмене может быть меньше Planned)
func (s *Summary) Processed() int {
	return s.Updated + s.NotFound + s.Conflict + s.Error
}

// SuccessRate доля обновленных от запланированных
func (s *Summary) SuccessRate() float64 {
	if s.Planned == 0 {
		return 0
	}
	return float64(s.Updated) / float64(s.Planned)
}

// Duration длительность прогона
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

func (s *Summary) add(r Result) {
	switch r.Outcome {
	case OutcomeUpdated:
		s.Updated++
	case OutcomeNotFound:
		s.NotFound++
	case OutcomeConflict:
		s.Conflict++
	case OutcomeError:
		s.Error++
	}
	s.Results = append(s.Results, r)
}
