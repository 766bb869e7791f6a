package blood4life

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/out"
)

// REST-часть уведомлений, push-канал живёт в адаптере websocket

func (a *Blood4LifeAdapter) GetNotifications(ctx context.Context) ([]domain.Notification, error) {
	req, err := a.newRequest(ctx, http.MethodGet, "/notifications", nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("blood4life.notifications.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var notifications []domain.Notification
	if err := json.NewDecoder(resp.Body).Decode(&notifications); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (a *Blood4LifeAdapter) GetUnreadCount(ctx context.Context) (int, error) {
	req, err := a.newRequest(ctx, http.MethodGet, "/notifications/unread/count", nil)
	if err != nil {
		return 0, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("blood4life.notifications.unread_count.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, readError(resp)
	}

	// Счётчик приходит в конверте {count: n}
	var payload struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}

	return payload.Count, nil
}

func (a *Blood4LifeAdapter) MarkAsRead(ctx context.Context, notificationID int64) error {
	req, err := a.newRequest(ctx, http.MethodPut, fmt.Sprintf("/notifications/%d/read", notificationID), nil)
	if err != nil {
		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("blood4life.notifications.mark_read_failed", out.LogFields{
			"notificationId": notificationID,
			"error":          err.Error(),
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return readError(resp)
	}

	return nil
}

func (a *Blood4LifeAdapter) MarkAllAsRead(ctx context.Context) error {
	req, err := a.newRequest(ctx, http.MethodPut, "/notifications/read-all", nil)
	if err != nil {
		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("blood4life.notifications.mark_all_read_failed", out.LogFields{
			"error": err.Error(),
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return readError(resp)
	}

	return nil
}
