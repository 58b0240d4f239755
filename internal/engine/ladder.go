package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidLadder - ошибка конструирования лестницы (пустая или с неположительной ставкой)
var ErrInvalidLadder = errors.New("invalid ladder")

// Ladder - упорядоченный список ставок ("лестница").
// Неизменяема после создания: конструктор копирует слайс ставок,
// наружу отдаются только копии
type Ladder struct {
	name   string
	stakes []float64
}

// NewLadder - создает лестницу с валидацией.
// Ошибки конфигурации здесь громкие: пустая лестница или
// неположительная ставка - это ошибка вызывающего кода
func NewLadder(name string, stakes []float64) (Ladder, error) {
	if len(stakes) == 0 {
		return Ladder{}, fmt.Errorf("%w: ladder %q has no stakes", ErrInvalidLadder, name)
	}
	for i, s := range stakes {
		if s <= 0 {
			return Ladder{}, fmt.Errorf("%w: ladder %q stake at %d must be positive, got %v", ErrInvalidLadder, name, i, s)
		}
	}

	// Копируем, чтобы вызывающий не мог мутировать лестницу после создания
	cp := make([]float64, len(stakes))
	copy(cp, stakes)

	return Ladder{name: name, stakes: cp}, nil
}

// Name возвращает имя лестницы
func (l Ladder) Name() string {
	return l.name
}

// MaxIndex - максимальный индекс ступени
func (l Ladder) MaxIndex() int {
	return len(l.stakes) - 1
}

// StakeAt - ставка на ступени index.
// Индекс за границами молча зажимается в [0, MaxIndex]: на этом
// поведении построена вся арифметика переходов между лестницами,
// поэтому выход за границы тут - не ошибка
func (l Ladder) StakeAt(index int) float64 {
	if index < 0 {
		index = 0
	}
	if index > l.MaxIndex() {
		index = l.MaxIndex()
	}
	return l.stakes[index]
}

// IsAtTop - находится ли индекс на верхней ступени
func (l Ladder) IsAtTop(index int) bool {
	return index >= l.MaxIndex()
}

// IsAtBottom - находится ли индекс на нижней ступени
func (l Ladder) IsAtBottom(index int) bool {
	return index <= 0
}

// Stakes возвращает копию списка ставок (для снапшотов и ответов API)
func (l Ladder) Stakes() []float64 {
	cp := make([]float64, len(l.stakes))
	copy(cp, l.stakes)
	return cp
}
