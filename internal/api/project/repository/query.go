package projectRepository

const (
	queryCreateProject = `
		INSERT INTO projects (
			id,
			name,
			slug,
			access_code,
			description,
			owner_id,
			active,
			created_at,
			updated_at
		) VALUES (
			:id,
			:name,
			:slug,
			:access_code,
			:description,
			:owner_id,
			:active,
			:created_at,
			:updated_at
		)
	`

	queryGetProjectByID = `
		SELECT
			id,
			name,
			slug,
			access_code,
			description,
			owner_id,
			active,
			created_at,
			updated_at
		FROM projects
		WHERE id = :id
	`

	queryGetProjectByAccessCode = `
		SELECT
			id,
			name,
			slug,
			access_code,
			description,
			owner_id,
			active,
			created_at,
			updated_at
		FROM projects
		WHERE access_code = :access_code AND active = TRUE
	`

	queryGetProjectsByUserID = `
		SELECT
			p.id,
			p.name,
			p.slug,
			p.access_code,
			p.description,
			p.owner_id,
			p.active,
			p.created_at,
			p.updated_at
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = :user_id AND m.active = TRUE
		ORDER BY p.created_at DESC
	`

	queryUpdateProject = `
		UPDATE projects
		SET
			name = :name,
			description = :description,
			updated_at = :updated_at
		WHERE id = :id
	`

	queryUpdateAccessCode = `
		UPDATE projects
		SET
			access_code = :access_code,
			updated_at = :updated_at
		WHERE id = :id
	`

	queryDeleteProject = `
		DELETE FROM projects
		WHERE id = :id
	`

	querySlugExists = `
		SELECT EXISTS (
			SELECT 1 FROM projects WHERE slug = :slug
		) AS found
	`

	queryAccessCodeExists = `
		SELECT EXISTS (
			SELECT 1 FROM projects WHERE access_code = :access_code
		) AS found
	`

	queryProjectNameExists = `
		SELECT EXISTS (
			SELECT 1 FROM projects
			WHERE name = :name AND owner_id = :owner_id AND active = TRUE
		) AS found
	`

	queryLockProject = `
		SELECT id FROM projects
		WHERE id = :id
		FOR UPDATE
	`

	queryAddMember = `
		INSERT INTO project_members (
			id,
			project_id,
			user_id,
			role,
			access_code_used,
			active,
			created_at
		) VALUES (
			:id,
			:project_id,
			:user_id,
			:role,
			:access_code_used,
			:active,
			:created_at
		)
	`

	queryGetMember = `
		SELECT
			id,
			project_id,
			user_id,
			role,
			access_code_used,
			active,
			created_at
		FROM project_members
		WHERE project_id = :project_id AND user_id = :user_id AND active = TRUE
	`

	queryGetMembersByProjectID = `
		SELECT
			id,
			project_id,
			user_id,
			role,
			access_code_used,
			active,
			created_at
		FROM project_members
		WHERE project_id = :project_id AND active = TRUE
		ORDER BY created_at ASC
	`

	queryCreateBoundary = `
		INSERT INTO farm_boundaries (
			id,
			project_id,
			name,
			geometry,
			area_hectares,
			active,
			created_at,
			updated_at
		) VALUES (
			:id,
			:project_id,
			:name,
			:geometry,
			:area_hectares,
			:active,
			:created_at,
			:updated_at
		)
	`

	queryGetBoundaryByID = `
		SELECT
			id,
			project_id,
			name,
			geometry,
			area_hectares,
			active,
			created_at,
			updated_at
		FROM farm_boundaries
		WHERE id = :id
	`

	queryGetBoundariesByProjectID = `
		SELECT
			id,
			project_id,
			name,
			geometry,
			area_hectares,
			active,
			created_at,
			updated_at
		FROM farm_boundaries
		WHERE project_id = :project_id
		ORDER BY created_at ASC
	`

	queryDeleteBoundary = `
		DELETE FROM farm_boundaries
		WHERE id = :id
	`

	queryCreateCamera = `
		INSERT INTO cameras (
			boundary_id,
			name,
			camera_type,
			ip_address,
			port,
			cellular_id,
			latitude,
			longitude,
			active,
			created_at,
			updated_at
		) VALUES (
			:boundary_id,
			:name,
			:camera_type,
			:ip_address,
			:port,
			:cellular_id,
			:latitude,
			:longitude,
			:active,
			:created_at,
			:updated_at
		)
		RETURNING id
	`

	queryGetCameraByID = `
		SELECT
			id,
			boundary_id,
			name,
			camera_type,
			ip_address,
			port,
			cellular_id,
			latitude,
			longitude,
			active,
			last_heartbeat_at,
			created_at,
			updated_at
		FROM cameras
		WHERE id = :id
	`

	queryGetCameraByAddress = `
		SELECT
			id,
			boundary_id,
			name,
			camera_type,
			ip_address,
			port,
			cellular_id,
			latitude,
			longitude,
			active,
			last_heartbeat_at,
			created_at,
			updated_at
		FROM cameras
		WHERE ip_address = :ip_address AND port = :port
	`

	queryGetCameraByCellularID = `
		SELECT
			id,
			boundary_id,
			name,
			camera_type,
			ip_address,
			port,
			cellular_id,
			latitude,
			longitude,
			active,
			last_heartbeat_at,
			created_at,
			updated_at
		FROM cameras
		WHERE cellular_id = :cellular_id
	`

	queryGetCamerasByBoundaryID = `
		SELECT
			id,
			boundary_id,
			name,
			camera_type,
			ip_address,
			port,
			cellular_id,
			latitude,
			longitude,
			active,
			last_heartbeat_at,
			created_at,
			updated_at
		FROM cameras
		WHERE boundary_id = :boundary_id
		ORDER BY created_at ASC
	`

	queryGetCamerasByProjectID = `
		SELECT
			c.id,
			c.boundary_id,
			c.name,
			c.camera_type,
			c.ip_address,
			c.port,
			c.cellular_id,
			c.latitude,
			c.longitude,
			c.active,
			c.last_heartbeat_at,
			c.created_at,
			c.updated_at
		FROM cameras c
		JOIN farm_boundaries b ON b.id = c.boundary_id
		WHERE b.project_id = :project_id
		ORDER BY c.created_at ASC
	`

	queryGetProjectIDByCameraID = `
		SELECT b.project_id
		FROM cameras c
		JOIN farm_boundaries b ON b.id = c.boundary_id
		WHERE c.id = :id
	`

	queryUpdateCameraHeartbeat = `
		UPDATE cameras
		SET
			last_heartbeat_at = :last_heartbeat_at,
			updated_at = :updated_at
		WHERE id = :id
	`

	querySetCameraActive = `
		UPDATE cameras
		SET
			active = :active,
			updated_at = :updated_at
		WHERE id = :id
	`

	queryDeleteCamera = `
		DELETE FROM cameras
		WHERE id = :id
	`
)
