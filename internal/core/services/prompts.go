package services

import (
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

// Built-in prompts used when no PromptStore is set or a load fails.
var builtinPrompts = map[string]string{
	driven.PromptSummarySystem: "Составь структурированный конспект книги по фрагментам. Верни JSON строго по схеме. " +
		"Если данных нет, оставь поле пустым.",
	driven.PromptRenderSystem: "Ты автор постов для канала о книгах. Без заголовка, хэштегов и жирного шрифта. " +
		"Опирайся только на конспект.",
	driven.PromptFormatPrefix + "announce": "Анонс книги: о чём она и для кого.",
	driven.PromptFormatPrefix + "insight":  "Одна ключевая идея книги с примером.",
	driven.PromptFormatPrefix + "practice": "Практика из книги: 3-5 шагов.",
	driven.PromptFormatPrefix + "case":     "Кейс из книги и вывод для читателя.",
	driven.PromptFormatPrefix + "quote":    "Цитата из книги и как её применить.",
	driven.PromptFormatPrefix + "reflect":  "Три вопроса для размышления по книге.",
}

// promptLoader resolves prompts through an optional store.
type promptLoader struct {
	store driven.PromptStore
}

func (p *promptLoader) load(name string) string {
	if p.store != nil {
		prompt, err := p.store.Load(name)
		if err == nil && prompt != "" {
			return prompt
		}
		if err != nil {
			logger.Warn("prompt %s: %v; using built-in", name, err)
		}
	}
	return builtinPrompts[name]
}
