package model

// AnonymousUserID keys progress rows of requests without an identity.
const AnonymousUserID uint = 0

// MaxAttempts is the number of answers allowed per question.
const MaxAttempts = 2

// UserProgress tracks one user's answering state on one question.
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID            uint      `gorm:"not null;default:0;uniqueIndex:idx_progress_user_question,priority:1;index:idx_progress_user_subject,priority:1" json:"userId"`
	QuestionID        uint      `gorm:"not null;uniqueIndex:idx_progress_user_question,priority:2" json:"questionId"`
	Question          *Question `gorm:"constraint:OnDelete:CASCADE;" json:"question,omitempty"`
	SubjectID         uint      `gorm:"not null;index:idx_progress_user_subject,priority:2" json:"subjectId"`
	Subject           *Subject  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	SelectedOptionID  *uint     `json:"selectedOptionId"`
	SelectedOption    *Option   `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
	Attempts          int       `gorm:"not null;default:0" json:"attempts"`
	AnsweredCorrectly bool      `gorm:"not null;default:false" json:"answeredCorrectly"`
	HintUsed          bool      `gorm:"not null;default:false" json:"hintUsed"`
}

func (UserProgress) TableName() string {
	return "quiz_userprogress"
}

// UserKey maps an optional identity onto the stored user column.
func UserKey(userID *uint) uint {
	if userID == nil {
		return AnonymousUserID
	}
	return *userID
}
