package health

import "time"

type checkInput struct{}

type checkOutput struct {
	Body Response
}

// Response состояние сервиса и локального хранилища
type Response struct {
	Status  string    `json:"status" example:"OK" enum:"OK,DEGRADED"`
	Storage string    `json:"storage" example:"up" enum:"up,down"`
	Time    time.Time `json:"time" format:"date-time"`
}
