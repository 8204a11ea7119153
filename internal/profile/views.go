package profile

import (
	"github.com/sweeney/trailkit/internal/display"
	"github.com/sweeney/trailkit/internal/format"
	"github.com/sweeney/trailkit/internal/telemetry"
)

// OLED widgets are sized for 18 columns of basicfont 7x13, one value per row.
var (
	batteryPercent = format.Widget{
		ID:        "battery.percent",
		Template:  "BAT {}%",
		Fields:    []format.Field{format.BatteryPercent},
		Precision: 1,
	}
	batteryVoltage = format.Widget{
		ID:        "battery.voltage",
		Template:  "VOLT {}V",
		Fields:    []format.Field{format.BatteryVoltage},
		Precision: 2,
	}
	batteryRate = format.Widget{
		ID:        "battery.rate",
		Template:  "RATE {}%/hr",
		Fields:    []format.Field{format.BatteryChargeRate},
		Precision: 1,
	}
	heading = format.Widget{
		ID:        "imu.compass",
		Template:  "HDG {} deg",
		Fields:    []format.Field{format.CompassBearing},
		Precision: 0,
	}
	gyroX = axis("imu.gyro.x", "GX {} rad/s", format.GyroX, 4)
	gyroY = axis("imu.gyro.y", "GY {} rad/s", format.GyroY, 4)
	gyroZ = axis("imu.gyro.z", "GZ {} rad/s", format.GyroZ, 4)

	accelX = axis("imu.accel.x", "AX {} m/s2", format.AccelX, 2)
	accelY = axis("imu.accel.y", "AY {} m/s2", format.AccelY, 2)
	accelZ = axis("imu.accel.z", "AZ {} m/s2", format.AccelZ, 2)

	temperature = format.Widget{
		ID:        "env.temp",
		Template:  "TEMP {}C",
		Fields:    []format.Field{format.TempC},
		Precision: 1,
	}
	humidity = format.Widget{
		ID:        "env.humidity",
		Template:  "HUMIDITY {}%",
		Fields:    []format.Field{format.HumidityPct},
		Precision: 0,
	}
	pressure = format.Widget{
		ID:        "env.pressure",
		Template:  "PRES {}hPa",
		Fields:    []format.Field{format.PressureHPa},
		Precision: 1,
	}
)

func axis(id, template string, f format.Field, precision int) format.Widget {
	return format.Widget{ID: id, Template: template, Fields: []format.Field{f}, Precision: precision}
}

// dopePages is a 0.308 175gr drop table in MIL, zeroed at 100m.
var dopePages = [][]string{
	{"RANGE  DROP  WIND", "100m   0.0   0.1", "200m   0.6   0.2", "300m   1.5   0.4"},
	{"RANGE  DROP  WIND", "400m   2.5   0.5", "500m   3.6   0.7", "600m   4.9   0.9"},
	{"RANGE  DROP  WIND", "700m   6.3   1.1", "800m   7.9   1.3", "900m   9.7   1.5"},
}

func levelView() display.View {
	return display.View{
		ID:      "Level",
		Kind:    display.KindLevel,
		Surface: display.Fast,
		Widgets: []format.Widget{heading, accelX, accelY, accelZ},
	}
}

func gyroView() display.View {
	return display.View{
		ID:      "Gyro",
		Kind:    display.KindDiagnostics,
		Surface: display.Fast,
		Widgets: []format.Widget{gyroX, gyroY, gyroZ},
	}
}

func dopeView() display.View {
	return display.View{
		ID:      "Dope",
		Kind:    display.KindDopeTable,
		Title:   "DOPE .308 175gr",
		Surface: display.SlowProtected,
		Widgets: []format.Widget{temperature, pressure},
		Pages:   dopePages,
	}
}

func enviroView() display.View {
	return display.View{
		ID:      "Enviro",
		Kind:    display.KindEnvironmental,
		Surface: display.Fast,
		Widgets: []format.Widget{temperature, humidity, pressure},
	}
}

func batteryView() display.View {
	return display.View{
		ID:      "Battery",
		Kind:    display.KindBattery,
		Surface: display.Fast,
		Widgets: []format.Widget{batteryPercent, batteryVoltage, batteryRate},
	}
}

func diagView() display.View {
	return display.View{
		ID:      "Diag",
		Kind:    display.KindDiagnostics,
		Surface: display.Fast,
		Widgets: []format.Widget{batteryPercent, batteryVoltage, batteryRate, heading},
	}
}

// Field is the full handheld: OLED, e-paper and every sensor.
func Field() Profile {
	return Profile{
		Name:    "field",
		Items:   []string{"Level", "Dope", "Enviro", "Battery"},
		Views:   []display.View{levelView(), dopeView(), enviroView(), batteryView()},
		Sensors: telemetry.Fitted{Battery: true, Inertial: true, Environment: true},
		EPaper:  true,
	}
}

// Diag is the OLED-only diagnostics build: battery and heading on one
// screen, with the raw IMU axes behind Level and Gyro.
func Diag() Profile {
	return Profile{
		Name:    "diag",
		Items:   []string{"Diag", "Level", "Gyro", "Battery"},
		Views:   []display.View{diagView(), levelView(), gyroView(), batteryView()},
		Sensors: telemetry.Fitted{Battery: true, Inertial: true},
	}
}

// Bench is a bare board with the OLED and fuel gauge only.
func Bench() Profile {
	return Profile{
		Name:    "bench",
		Items:   []string{"Battery", "Diag"},
		Views:   []display.View{batteryView(), diagView()},
		Sensors: telemetry.Fitted{Battery: true},
	}
}
