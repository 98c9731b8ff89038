package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Missing files fall back to embedded defaults.
//
// Files are created lazily on the first Load, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptSummarySystem: `Ты редактор книжного канала. По фрагментам книги составь структурированный конспект.
Пиши по-русски, опирайся только на фрагменты, ничего не выдумывай.
Верни JSON строго по схеме: about (title, author, thesis, audience), key_ideas, practices (name, steps), cases, quotes (text, note), reflection.
Если данных для поля нет, верни пустую строку или пустой список.`,

	driven.PromptRenderSystem: `Ты автор постов для Telegram-канала о книгах. Пиши живо, конкретно и по делу.
Без кликбейта, без жирного шрифта, без хэштегов и без заголовка: их добавят отдельно.
Не больше 2-3 эмодзи на пост. Опирайся только на конспект книги.`,

	driven.PromptFormatPrefix + "announce": `Анонс книги: о чём она, главный тезис и для кого. 3-5 предложений, в конце мягкий призыв читать канал на этой неделе.`,

	driven.PromptFormatPrefix + "insight": `Одна ключевая идея книги: сформулируй её, объясни, почему она работает, и приведи короткий пример из жизни. До 900 знаков.`,

	driven.PromptFormatPrefix + "practice": `Практика из книги: название и 3-5 пронумерованных шагов, которые читатель может сделать сегодня.`,

	driven.PromptFormatPrefix + "case": `Кейс из книги: кто, в какой ситуации, что сделал и какой результат. Заверши выводом для читателя.`,

	driven.PromptFormatPrefix + "quote": `Сильная цитата из книги в кавычках и 2-3 предложения о том, как её понять и применить.`,

	driven.PromptFormatPrefix + "reflect": `Вопросы для размышления по книге: 3 вопроса, которые помогут читателю примерить идеи на себя.`,
}

// DefaultPromptNames returns the names of every embedded prompt, sorted.
func DefaultPromptNames() []string {
	names := make([]string, 0, len(defaultPrompts))
	for name := range defaultPrompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.autopost/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// Falls back to the embedded default if the file is missing or empty.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		if err == nil {
			err = errors.New("empty prompt file")
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
