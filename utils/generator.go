package utils

import (
	"math/rand"
	"time"

	"github.com/wanjiru256/mentor_connect/models"
	"gorm.io/gorm"
)

const meetingCodeLength = 10
const letterBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

func GenerateUniqueMeetingLink(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, meetingCodeLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		link := "https://meet.mentorconnect.app/" + string(b)

		var session models.Session
		err := tx.Where("meeting_link = ?", link).First(&session).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return link, nil
			}
			return "", err
		}
	}
}
