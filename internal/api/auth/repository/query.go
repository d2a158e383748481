package authRepository

const (
	queryCreateUser = `
		INSERT INTO users (
			id,
			email,
			name,
			password,
			phone_number,
			created_at,
			updated_at
		) VALUES (
			:id,
			:email,
			:name,
			:password,
			:phone_number,
			:created_at,
			:updated_at
		)
	`

	queryGetUserByEmail = `
		SELECT
			id,
			email,
			name,
			password,
			phone_number,
			created_at,
			updated_at
		FROM users
		WHERE email = :email
	`

	queryGetUserByID = `
		SELECT
			id,
			email,
			name,
			password,
			phone_number,
			created_at,
			updated_at
		FROM users
		WHERE id = :id
	`

	queryUpdateUser = `
		UPDATE users
		SET
			name = :name,
			password = :password,
			phone_number = :phone_number,
			updated_at = :updated_at
		WHERE id = :id
	`

	queryCreateSession = `
		INSERT INTO sessions (
			id,
			user_id,
			refresh_token,
			created_at,
			expires_at
		) VALUES (
			:id,
			:user_id,
			:refresh_token,
			:created_at,
			:expires_at
		)
	`

	queryGetSessionByRefreshToken = `
		SELECT
			id,
			user_id,
			refresh_token,
			created_at,
			expires_at
		FROM sessions
		WHERE refresh_token = :refresh_token
	`

	queryDeleteSessionsByUserID = `
		DELETE FROM sessions
		WHERE user_id = :user_id
	`

	queryUpsertDeviceToken = `
		INSERT INTO device_tokens (
			id,
			user_id,
			token,
			platform,
			created_at
		) VALUES (
			:id,
			:user_id,
			:token,
			:platform,
			:created_at
		)
		ON CONFLICT (token) DO UPDATE
		SET user_id = :user_id, platform = :platform
	`

	queryGetDeviceTokensByUserID = `
		SELECT
			id,
			user_id,
			token,
			platform,
			created_at
		FROM device_tokens
		WHERE user_id = :user_id
	`

	queryDeleteDeviceToken = `
		DELETE FROM device_tokens
		WHERE user_id = :user_id AND token = :token
	`
)
