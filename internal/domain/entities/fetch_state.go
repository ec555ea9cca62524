package entities

type FetchStatus string

const (
	FetchStatusIdle    FetchStatus = "idle"
	FetchStatusLoading FetchStatus = "loading"
	FetchStatusSuccess FetchStatus = "success"
	FetchStatusFailed  FetchStatus = "failed"
)

// FetchState holds exactly one of the four statuses. Result is set only for
// Success and Message only for Failed.
type FetchState struct {
	Status  FetchStatus    `json:"status"`
	Result  *WeatherResult `json:"result,omitempty"`
	Message string         `json:"message,omitempty"`
}

func Idle() FetchState {
	return FetchState{Status: FetchStatusIdle}
}

func Loading() FetchState {
	return FetchState{Status: FetchStatusLoading}
}

func Succeeded(result WeatherResult) FetchState {
	return FetchState{Status: FetchStatusSuccess, Result: &result}
}

func Failed(message string) FetchState {
	return FetchState{Status: FetchStatusFailed, Message: message}
}

func (s FetchState) IsLoading() bool { return s.Status == FetchStatusLoading }
func (s FetchState) IsSuccess() bool { return s.Status == FetchStatusSuccess }
func (s FetchState) IsFailed() bool  { return s.Status == FetchStatusFailed }
