package bleuuid

// serviceNames maps registered GATT service short names to their 16-bit
// assigned numbers, per the Bluetooth SIG assigned numbers document.
var serviceNames = map[string]uint16{
	"generic_access":             0x1800,
	"generic_attribute":          0x1801,
	"immediate_alert":            0x1802,
	"link_loss":                  0x1803,
	"tx_power":                   0x1804,
	"current_time":               0x1805,
	"reference_time_update":      0x1806,
	"next_dst_change":            0x1807,
	"glucose":                    0x1808,
	"health_thermometer":         0x1809,
	"device_information":         0x180a,
	"heart_rate":                 0x180d,
	"phone_alert_status":         0x180e,
	"battery_service":            0x180f,
	"blood_pressure":             0x1810,
	"alert_notification":         0x1811,
	"human_interface_device":     0x1812,
	"scan_parameters":            0x1813,
	"running_speed_and_cadence":  0x1814,
	"automation_io":              0x1815,
	"cycling_speed_and_cadence":  0x1816,
	"cycling_power":              0x1818,
	"location_and_navigation":    0x1819,
	"environmental_sensing":      0x181a,
	"body_composition":           0x181b,
	"user_data":                  0x181c,
	"weight_scale":               0x181d,
	"bond_management":            0x181e,
	"continuous_glucose_monitor": 0x181f,
	"internet_protocol_support":  0x1820,
	"indoor_positioning":         0x1821,
	"pulse_oximeter":             0x1822,
	"http_proxy":                 0x1823,
	"transport_discovery":        0x1824,
	"object_transfer":            0x1825,
	"fitness_machine":            0x1826,
	"mesh_provisioning":          0x1827,
	"mesh_proxy":                 0x1828,
	"reconnection_configuration": 0x1829,
}

// displayNames maps 16-bit assigned numbers to human-readable service names.
var displayNames = map[uint16]string{
	0x1800: "Generic Access",
	0x1801: "Generic Attribute",
	0x1802: "Immediate Alert",
	0x1803: "Link Loss",
	0x1804: "Tx Power",
	0x1805: "Current Time",
	0x1808: "Glucose",
	0x1809: "Health Thermometer",
	0x180a: "Device Information",
	0x180d: "Heart Rate",
	0x180f: "Battery",
	0x1810: "Blood Pressure",
	0x1812: "Human Interface Device",
	0x1814: "Running Speed and Cadence",
	0x1816: "Cycling Speed and Cadence",
	0x1818: "Cycling Power",
	0x1819: "Location and Navigation",
	0x181a: "Environmental Sensing",
	0x181b: "Body Composition",
	0x181d: "Weight Scale",
	0x181f: "Continuous Glucose Monitoring",
	0x1822: "Pulse Oximeter",
	0x1826: "Fitness Machine",
}
