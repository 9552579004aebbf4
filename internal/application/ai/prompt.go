package ai

import (
	"fmt"
	"strings"

	domai "github.com/bryanwahyu/product-content-ai/internal/domain/ai"
	"github.com/bryanwahyu/product-content-ai/internal/domain/product"
)

// descriptionLengths maps each bucket to the word range asked from the model
var descriptionLengths = map[product.DescriptionLength]string{
	product.LengthShort:  "50-100 کلمه",
	product.LengthMedium: "100-200 کلمه",
	product.LengthLong:   "200-300 کلمه",
}

// platformPhrases holds the phrasing for platforms the prompt knows about
var platformPhrases = map[string]string{
	product.PlatformInstagram: "مناسب برای پست اینستاگرام و شبکه‌های اجتماعی",
	product.PlatformStore:     "مناسب برای فروشگاه آنلاین",
}

const systemPromptTemplate = `شما یک متخصص بازاریابی و تولید محتوای فارسی هستید. وظیفه شما تحلیل تصویر محصولات و تولید محتوای حرفه‌ای فارسی است.

از تصویر محصول ارائه شده، موارد زیر را به زبان فارسی تولید کنید:

1. عنوان: عنوانی جذاب و هوشمند برای محصول (حداکثر 80 کاراکتر)
2. توضیحات: توضیحات حرفه‌ای محصول (%s) که %s
3. هشتگ‌ها: 10 هشتگ مرتبط و ترند به زبان فارسی (با # در ابتدا)
4. دسته‌بندی‌ها: 3-5 دسته‌بندی مناسب برای محصول

نکات مهم:
- همه محتوا باید به زبان فارسی باشد
- از کلمات کلیدی مرتبط با محصول استفاده کنید
- توضیحات باید جذاب و فروش‌محور باشد
- هشتگ‌ها باید ترند و پرکاربرد باشند
- دسته‌بندی‌ها باید دقیق و مناسب محصول باشند

پاسخ را فقط به صورت یک شیء JSON با فرمت زیر ارائه دهید (بدون markdown و توضیح اضافه):
{
  "title": "عنوان محصول",
  "description": "توضیحات کامل محصول",
  "hashtags": ["#هشتگ۱", "#هشتگ۲", ...],
  "categories": ["دسته۱", "دسته۲", ...]
}`

const userPrompt = "بر اساس این تصویر محصول، محتوای فارسی مطابق دستورالعمل تولید کنید."

// BuildInstruction renders the Persian instruction for the given settings.
func BuildInstruction(s product.GenerationSettings) domai.Instruction {
	length, ok := descriptionLengths[s.DescriptionLength]
	if !ok {
		length = descriptionLengths[product.LengthMedium]
	}
	return domai.Instruction{
		System: fmt.Sprintf(systemPromptTemplate, length, platformInstruction(s.TargetPlatforms)),
		User:   userPrompt,
	}
}

// platformInstruction joins the phrasing of every target platform. Unknown
// tokens are named as-is so the model can still adapt the tone.
func platformInstruction(platforms []string) string {
	seen := make(map[string]bool, len(platforms))
	parts := make([]string, 0, len(platforms))
	for _, p := range platforms {
		key := strings.ToLower(strings.TrimSpace(p))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if phrase, ok := platformPhrases[key]; ok {
			parts = append(parts, phrase)
		} else {
			parts = append(parts, "مناسب برای انتشار در "+strings.TrimSpace(p))
		}
	}
	if len(parts) == 0 {
		return platformPhrases[product.PlatformStore]
	}
	return strings.Join(parts, " و ")
}
