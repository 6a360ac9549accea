package i18n

var catalogs = map[string]map[string]string{
	"fa": {
		"status.file_ready":          "فایل آماده فشرده‌سازی است. حجم هدف را وارد کنید.",
		"status.compressing":         "در حال فشرده‌سازی تصویر...",
		"status.compressed":          "تصویر با موفقیت فشرده شد!",
		"status.unsupported_format":  "فقط فایل‌های JPG و PNG پشتیبانی می‌شوند.",
		"status.no_file_selected":    "لطفاً ابتدا یک تصویر را انتخاب یا آپلود کنید.",
		"status.invalid_target_size": "لطفاً یک حجم هدف معتبر (عدد مثبت) وارد کنید.",
		"status.compression_failed":  "خطا در فشرده‌سازی",

		"page.title":        "فشرده‌ساز تصویر",
		"page.drop":         "تصویر را اینجا رها کنید یا برای انتخاب کلیک کنید",
		"page.file_name":    "نام فایل",
		"page.original":     "حجم اصلی",
		"page.target":       "حجم هدف (کیلوبایت)",
		"page.compress":     "فشرده‌سازی",
		"page.compressed":   "حجم فشرده شده",
		"page.download":     "دانلود",
		"page.stats":        "آمار",
		"page.stats_today":  "امروز",
		"page.stats_total":  "مجموع",
		"page.stats_saved":  "صرفه‌جویی",
		"page.dimensions":   "ابعاد",
		"page.camera":       "دوربین",
		"error.in_progress": "فشرده‌سازی دیگری در حال انجام است.",
		"error.too_large":   "فایل بیش از حد بزرگ است.",
		"error.upload":      "بارگذاری فایل ناموفق بود.",
	},
	"en": {
		"status.file_ready":          "File is ready for compression. Enter a target size.",
		"status.compressing":         "Compressing image...",
		"status.compressed":          "Image compressed successfully!",
		"status.unsupported_format":  "Only JPG and PNG files are supported.",
		"status.no_file_selected":    "Please select or upload an image first.",
		"status.invalid_target_size": "Please enter a valid target size (a positive number).",
		"status.compression_failed":  "Compression failed",

		"page.title":        "Image Compressor",
		"page.drop":         "Drop an image here or click to choose one",
		"page.file_name":    "File name",
		"page.original":     "Original size",
		"page.target":       "Target size (KB)",
		"page.compress":     "Compress",
		"page.compressed":   "Compressed size",
		"page.download":     "Download",
		"page.stats":        "Statistics",
		"page.stats_today":  "Today",
		"page.stats_total":  "Total",
		"page.stats_saved":  "Saved",
		"page.dimensions":   "Dimensions",
		"page.camera":       "Camera",
		"error.in_progress": "Another compression is still running.",
		"error.too_large":   "The file is too large.",
		"error.upload":      "The upload failed.",
	},
	"de": {
		"status.file_ready":          "Die Datei ist bereit. Bitte Zielgröße eingeben.",
		"status.compressing":         "Bild wird komprimiert...",
		"status.compressed":          "Bild erfolgreich komprimiert!",
		"status.unsupported_format":  "Nur JPG- und PNG-Dateien werden unterstützt.",
		"status.no_file_selected":    "Bitte zuerst ein Bild auswählen oder hochladen.",
		"status.invalid_target_size": "Bitte eine gültige Zielgröße (positive Zahl) eingeben.",
		"status.compression_failed":  "Fehler bei der Komprimierung",

		"page.title":        "Bildkompressor",
		"page.drop":         "Bild hier ablegen oder zum Auswählen klicken",
		"page.file_name":    "Dateiname",
		"page.original":     "Originalgröße",
		"page.target":       "Zielgröße (KB)",
		"page.compress":     "Komprimieren",
		"page.compressed":   "Komprimierte Größe",
		"page.download":     "Herunterladen",
		"page.stats":        "Statistik",
		"page.stats_today":  "Heute",
		"page.stats_total":  "Gesamt",
		"page.stats_saved":  "Gespart",
		"page.dimensions":   "Abmessungen",
		"page.camera":       "Kamera",
		"error.in_progress": "Es läuft bereits eine Komprimierung.",
		"error.too_large":   "Die Datei ist zu groß.",
		"error.upload":      "Der Upload ist fehlgeschlagen.",
	},
}
