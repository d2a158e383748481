package detectionRepository

const (
	queryCreateDetection = `
		INSERT INTO detections (
			id,
			camera_id,
			detection_type_id,
			confidence,
			bounding_boxes,
			original_image_url,
			annotated_image_url,
			false_positive,
			detected_at,
			created_at
		) VALUES (
			:id,
			:camera_id,
			:detection_type_id,
			:confidence,
			:bounding_boxes,
			:original_image_url,
			:annotated_image_url,
			:false_positive,
			:detected_at,
			:created_at
		)
	`

	queryGetDetectionByID = `
		SELECT
			d.id,
			d.camera_id,
			d.detection_type_id,
			t.name AS detection_type_name,
			d.confidence,
			d.bounding_boxes,
			d.original_image_url,
			d.annotated_image_url,
			d.false_positive,
			d.review_notes,
			d.reviewed_by,
			d.reviewed_at,
			d.detected_at,
			d.created_at
		FROM detections d
		JOIN detection_types t ON t.id = d.detection_type_id
		WHERE d.id = :id
	`

	queryGetDetectionHistory = `
		SELECT
			d.id,
			d.camera_id,
			d.detection_type_id,
			t.name AS detection_type_name,
			d.confidence,
			d.bounding_boxes,
			d.original_image_url,
			d.annotated_image_url,
			d.false_positive,
			d.review_notes,
			d.reviewed_by,
			d.reviewed_at,
			d.detected_at,
			d.created_at
		FROM detections d
		JOIN detection_types t ON t.id = d.detection_type_id
		JOIN cameras c ON c.id = d.camera_id
		JOIN farm_boundaries b ON b.id = c.boundary_id
		WHERE b.project_id = :project_id
			AND (:camera_id = 0 OR d.camera_id = :camera_id)
			AND (:detection_type = '' OR t.name = :detection_type)
			AND (:from = '' OR d.detected_at >= CAST(:from AS timestamptz))
			AND (:to = '' OR d.detected_at <= CAST(:to AS timestamptz))
		ORDER BY d.detected_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryUpdateDetectionReview = `
		UPDATE detections
		SET
			false_positive = :false_positive,
			review_notes = :review_notes,
			reviewed_by = :reviewed_by,
			reviewed_at = :reviewed_at
		WHERE id = :id
	`

	queryGetDetectionTypeByName = `
		SELECT
			id,
			name,
			description
		FROM detection_types
		WHERE name = :name
	`

	queryCreateDetectionType = `
		INSERT INTO detection_types (
			id,
			name,
			description
		) VALUES (
			:id,
			:name,
			:description
		)
		ON CONFLICT (name) DO NOTHING
	`
)
