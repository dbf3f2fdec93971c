package response

import (
	"time"

	"event-notifier/internal/usecase/commands"

	"github.com/jinzhu/copier"
)

type ScheduleReminderResponse struct {
	Mode    string  `json:"mode"`
	FireAt  string  `json:"fire_at"`
	JobID   *string `json:"job_id,omitempty"`
	Outcome *string `json:"outcome,omitempty"`
}

func FromScheduleReminderResult(r *commands.ScheduleReminderResult) *ScheduleReminderResponse {
	res := &ScheduleReminderResponse{
		Mode:   string(r.Mode),
		FireAt: r.FireAt.Format(time.RFC3339),
	}
	if r.JobID != nil {
		id := r.JobID.String()
		res.JobID = &id
	}
	if r.Outcome != nil {
		o := r.Outcome.String()
		res.Outcome = &o
	}
	return res
}

type SweepResponse struct {
	WindowStart     string `json:"window_start"`
	WindowEnd       string `json:"window_end"`
	EventsProcessed int    `json:"events"`
	Sent            int    `json:"sent"`
	Failed          int    `json:"failed"`
	Skipped         int    `json:"skipped"`
}

func FromSweepResult(r *commands.SweepResult) (*SweepResponse, error) {
	res := &SweepResponse{
		WindowStart: r.Window.Start.Format(time.RFC3339),
		WindowEnd:   r.Window.End.Format(time.RFC3339),
	}
	if err := copier.Copy(res, r); err != nil {
		return nil, err
	}
	return res, nil
}
