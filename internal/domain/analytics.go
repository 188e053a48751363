package domain

// DepartmentCount is one bucket of the per-department breakdown
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// Analytics is the backend's aggregate view of the student body
type Analytics struct {
	TotalStudents        int               `json:"total_students"`
	StudentsByDepartment []DepartmentCount `json:"students_by_department"`
	RecentOnboarded      []Student         `json:"recent_onboarded"`
	ActiveLast7Days      int               `json:"active_last_7_days"`
}
