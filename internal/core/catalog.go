package core

// DefaultServices is the static service catalog. Entries are reference data
// used only to pre-fill a new line item; they are never persisted.
func DefaultServices() []Service {
	return []Service{
		{ID: "1", Description: "CNC Machine Time", Rate: 150, Unit: UnitPerHour},
		{ID: "2", Description: "3D Printer Usage", Rate: 45, Unit: UnitPerHour},
		{ID: "3", Description: "Laser Cutter Rental", Rate: 80, Unit: UnitPerHour},
		{ID: "4", Description: "Workshop Bay Rental", Rate: 500, Unit: UnitFixed},
		{ID: "5", Description: "Software License", Rate: 25, Unit: UnitFixed},
	}
}
