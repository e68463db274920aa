package i18n

import "golang.org/x/text/language"

// Message keys shared by templates and handlers.
const (
	KeyAlertDrowsy     = "alert.drowsy"
	KeyAlertDistracted = "alert.distracted"
	KeyAlertDrunk      = "alert.drunk"
	KeyAlertImpairment = "alert.impairment"
	KeyLoginFailed     = "login.failed"
	KeyNoRecords       = "list.empty"
	KeyShowing         = "list.showing"
	KeyLoading         = "session.loading"
	KeyRegisterNotice  = "register.notice"
	KeySaved           = "form.saved"
	KeyDetectionIdle   = "detection.idle"
	KeyDetectionActive = "detection.active"
)

var tables = map[language.Tag]map[string]string{
	language.English: {
		KeyAlertDrowsy:     "Drowsy",
		KeyAlertDistracted: "Distracted",
		KeyAlertDrunk:      "Drunk",
		KeyAlertImpairment: "Impairment",
		KeyLoginFailed:     "Invalid email or password. Please try again.",
		KeyNoRecords:       "No records found",
		KeyShowing:         "Showing %d of %d",
		KeyLoading:         "Loading...",
		KeyRegisterNotice:  "Registration is not available in the demo. Use a demo account to sign in.",
		KeySaved:           "Changes saved",
		KeyDetectionIdle:   "Detection stopped",
		KeyDetectionActive: "Monitoring driver",
	},
	language.Spanish: {
		KeyAlertDrowsy:     "Somnolencia",
		KeyAlertDistracted: "Distracción",
		KeyAlertDrunk:      "Ebriedad",
		KeyAlertImpairment: "Deterioro",
		KeyLoginFailed:     "Correo o contraseña no válidos. Inténtalo de nuevo.",
		KeyNoRecords:       "No se encontraron registros",
		KeyShowing:         "Mostrando %d de %d",
		KeyLoading:         "Cargando...",
		KeyRegisterNotice:  "El registro no está disponible en la demo. Usa una cuenta de demostración.",
		KeySaved:           "Cambios guardados",
		KeyDetectionIdle:   "Detección detenida",
		KeyDetectionActive: "Supervisando al conductor",
	},
}
