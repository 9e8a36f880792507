package blogservice

import (
	"regexp"

	"github.com/amikrop/blawg/internal/common"
)

var (
	TitleRX = regexp.MustCompile("^[a-zA-Z0-9 ]+$")
)

const (
	TitleMaxLength       = 100
	DescriptionMaxLength = 500
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 3, TitleMaxLength), "title", "must be between 3 and 100 characters long")
	v.Check(v.Matches(title, TitleRX), "title", "must only contain letters, numbers, and spaces")
}

func validateDescription(v *common.Validator, description string) {
	v.Check(v.CheckStringLength(description, 0, DescriptionMaxLength), "description", "must be at most 500 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
