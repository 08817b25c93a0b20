package rooms

type CreateRoomRequest struct {
	Name          string `json:"name" validate:"required,min=3,max=100"`
	Description   string `json:"description,omitempty"`
	Capacity      int    `json:"capacity" validate:"required,gt=0"`
	AvailableFrom string `json:"available_from" validate:"required"`
	AvailableTo   string `json:"available_to" validate:"required"`
	DaysOfWeek    []int  `json:"days_of_week,omitempty" validate:"omitempty,dive,gte=0,lte=6"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=available occupied maintenance"`
}

type UpdateRoomRequest struct {
	Name          string `json:"name" validate:"required,min=3,max=100"`
	Description   string `json:"description,omitempty"`
	Capacity      int    `json:"capacity" validate:"required,gt=0"`
	AvailableFrom string `json:"available_from" validate:"required"`
	AvailableTo   string `json:"available_to" validate:"required"`
	DaysOfWeek    []int  `json:"days_of_week,omitempty" validate:"omitempty,dive,gte=0,lte=6"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied maintenance"`
}
