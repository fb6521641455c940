package transfer

// Status is the terminal state of an export or import.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusCancelled Status = "cancelled"
	StatusFailure   Status = "failure"
)

// Outcome reports the result of Export or Import. Path is set for a
// successful export; ID and the texts are set for a successful import.
type Outcome struct {
	Status       Status `json:"status"`
	Path         string `json:"filePath,omitempty"`
	ID           int64  `json:"id,omitempty"`
	EnglishText  string `json:"englishText,omitempty"`
	JapaneseText string `json:"japaneseText,omitempty"`
	Message      string `json:"error,omitempty"`
}

func exported(path string) Outcome {
	return Outcome{Status: StatusSuccess, Path: path}
}

func imported(id int64, english, japanese string) Outcome {
	return Outcome{Status: StatusSuccess, ID: id, EnglishText: english, JapaneseText: japanese}
}

func cancelled() Outcome {
	return Outcome{Status: StatusCancelled}
}

func failed(message string) Outcome {
	return Outcome{Status: StatusFailure, Message: message}
}

// Succeeded reports whether the operation completed.
func (o Outcome) Succeeded() bool { return o.Status == StatusSuccess }

// Cancelled reports whether the user declined a choice.
func (o Outcome) Cancelled() bool { return o.Status == StatusCancelled }
