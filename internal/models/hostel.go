package models

import "time"

// Dormitory is a hostel building with bed capacity.
type Dormitory struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Gender    string    `db:"gender" json:"gender"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Occupied  int       `db:"occupied" json:"occupied"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Boarder links a student to the boarding programme.
type Boarder struct {
	ID              string    `db:"id" json:"id"`
	StudentID       string    `db:"student_id" json:"student_id"`
	StudentName     string    `db:"student_name" json:"student_name"`
	AdmissionNumber string    `db:"admission_number" json:"admission_number"`
	Grade           string    `db:"grade" json:"grade"`
	GuardianPhone   string    `db:"guardian_phone" json:"guardian_phone"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// HostelAllocation assigns a boarder to a dormitory bed.
type HostelAllocation struct {
	ID              string    `db:"id" json:"id"`
	StudentID       string    `db:"student_id" json:"student_id"`
	StudentName     string    `db:"student_name" json:"student_name"`
	AdmissionNumber string    `db:"admission_number" json:"admission_number"`
	DormitoryID     string    `db:"dormitory_id" json:"dormitory_id"`
	DormitoryName   string    `db:"dormitory_name" json:"dormitory_name"`
	RoomNumber      string    `db:"room_number" json:"room_number"`
	BedNumber       string    `db:"bed_number" json:"bed_number"`
	Status          string    `db:"status" json:"status"`
	AllocatedAt     time.Time `db:"allocated_at" json:"allocated_at"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
