package holiday

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/google/uuid"
)

type HolidayServiceImpl struct {
	holiday.HolidayRepository
}

func NewHolidayService(holidayRepository holiday.HolidayRepository) holiday.HolidayService {
	return &HolidayServiceImpl{HolidayRepository: holidayRepository}
}

func (s *HolidayServiceImpl) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	ok, err := s.HolidayRepository.IsHoliday(ctx, calendar.DateOf(date))
	if err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return ok, nil
}

func (s *HolidayServiceImpl) ListBetween(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	if end.Before(start) {
		start, end = end, start
	}
	hs, err := s.HolidayRepository.ListBetween(ctx, calendar.DateOf(start), calendar.DateOf(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return hs, nil
}

func (s *HolidayServiceImpl) Get(ctx context.Context, id string) (holiday.Holiday, error) {
	return s.HolidayRepository.GetByID(ctx, id)
}

func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.Holiday, error) {
	if err := req.Validate(); err != nil {
		return holiday.Holiday{}, err
	}
	date, _ := calendar.ParseDate(req.Date)

	h, err := s.HolidayRepository.Create(ctx, holiday.Holiday{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Date:        date,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return h, nil
}

func (s *HolidayServiceImpl) Update(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.Holiday, error) {
	if err := req.Validate(); err != nil {
		return holiday.Holiday{}, err
	}

	h, err := s.HolidayRepository.GetByID(ctx, req.ID)
	if err != nil {
		return holiday.Holiday{}, err
	}
	if req.Date != nil {
		h.Date, _ = calendar.ParseDate(*req.Date)
	}
	if req.Name != nil {
		h.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		h.Description = req.Description
	}

	if err := s.HolidayRepository.Update(ctx, h); err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to update holiday: %w", err)
	}
	return h, nil
}

func (s *HolidayServiceImpl) Delete(ctx context.Context, id string) error {
	return s.HolidayRepository.Delete(ctx, id)
}
