package notificationRepository

const (
	queryCreateNotification = `
		INSERT INTO notifications (
			id,
			user_id,
			detection_id,
			title,
			body,
			read,
			created_at
		) VALUES (
			:id,
			:user_id,
			:detection_id,
			:title,
			:body,
			FALSE,
			:created_at
		)
		ON CONFLICT (user_id, detection_id) DO NOTHING`

	queryGetNotificationByID = `
		SELECT id, user_id, detection_id, title, body, read, read_at, created_at
		FROM notifications
		WHERE id = :id`

	queryGetNotificationsByUserID = `
		SELECT id, user_id, detection_id, title, body, read, read_at, created_at
		FROM notifications
		WHERE user_id = :user_id
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset`

	queryCountUnreadByUserID = `
		SELECT COUNT(*)
		FROM notifications
		WHERE user_id = :user_id AND read = FALSE`

	queryMarkRead = `
		UPDATE notifications
		SET read = TRUE, read_at = :read_at
		WHERE id = :id AND user_id = :user_id`

	queryMarkAllRead = `
		UPDATE notifications
		SET read = TRUE, read_at = :read_at
		WHERE user_id = :user_id AND read = FALSE`
)
