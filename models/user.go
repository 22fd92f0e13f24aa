package models

type UserAccount struct {
	JsonModel
	Name             string   `json:"name"`
	Email            string   `json:"email" gorm:"unique"`
	Banned           bool     `gorm:"default:false" json:"-"`
	Platform         Platform `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`
	TelegramUsername string   `json:"telegram_username"`
	// prompt used by the daily suggestion job, empty disables it
	DailyPrompt          string `json:"daily_prompt"`
	ReceiveNotifications bool   `json:"receive_notifications"`
}

type UserPushToken struct {
	JsonModel
	UserAccountID uint
	UserAccount   UserAccount `json:"user_account"`
	Platform      Platform    `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`
	Token         string      `json:"token"`
	Active        bool        `gorm:"default:false" json:"-"`
}
