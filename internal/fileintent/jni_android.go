//go:build android && cgo

package fileintent

/*
#include <jni.h>
#include <stdlib.h>
#include <string.h>

enum {
	QUERY_OK = 0,
	QUERY_NO_ROWS = 1,
	QUERY_NO_COLUMN = 2,
	QUERY_NULL = 3,
	QUERY_EXCEPTION = 4,
};

static int clearException(JNIEnv* env) {
	if ((*env)->ExceptionCheck(env)) {
		(*env)->ExceptionClear(env);
		return 1;
	}
	return 0;
}

static char* toUTF(JNIEnv* env, jobject obj) {
	if (obj == NULL) return NULL;
	jclass cls = (*env)->GetObjectClass(env, obj);
	jmethodID to_string = (*env)->GetMethodID(env, cls, "toString", "()Ljava/lang/String;");
	jstring s = (*env)->CallObjectMethod(env, obj, to_string);
	if (clearException(env) || s == NULL) return NULL;
	const char* utf = (*env)->GetStringUTFChars(env, s, NULL);
	char* out = strdup(utf);
	(*env)->ReleaseStringUTFChars(env, s, utf);
	(*env)->DeleteLocalRef(env, s);
	return out;
}

static void readIntent(JNIEnv* env, jobject activity, char** action, char** data, char** stream) {
	*action = NULL;
	*data = NULL;
	*stream = NULL;

	jclass activity_class = (*env)->GetObjectClass(env, activity);
	jmethodID get_intent = (*env)->GetMethodID(env, activity_class, "getIntent", "()Landroid/content/Intent;");
	jobject intent = (*env)->CallObjectMethod(env, activity, get_intent);
	if (clearException(env) || intent == NULL) return;

	jclass intent_class = (*env)->GetObjectClass(env, intent);
	jmethodID get_action = (*env)->GetMethodID(env, intent_class, "getAction", "()Ljava/lang/String;");
	jobject a = (*env)->CallObjectMethod(env, intent, get_action);
	if (!clearException(env)) *action = toUTF(env, a);

	jmethodID get_data = (*env)->GetMethodID(env, intent_class, "getData", "()Landroid/net/Uri;");
	jobject uri = (*env)->CallObjectMethod(env, intent, get_data);
	if (!clearException(env)) *data = toUTF(env, uri);

	jmethodID get_extra = (*env)->GetMethodID(env, intent_class, "getParcelableExtra", "(Ljava/lang/String;)Landroid/os/Parcelable;");
	jstring extra_key = (*env)->NewStringUTF(env, "android.intent.extra.STREAM");
	jobject send_uri = (*env)->CallObjectMethod(env, intent, get_extra, extra_key);
	(*env)->DeleteLocalRef(env, extra_key);
	if (!clearException(env)) *stream = toUTF(env, send_uri);
}

static int queryData(JNIEnv* env, jobject activity, const char* uri_str, char** out) {
	*out = NULL;

	jclass activity_class = (*env)->GetObjectClass(env, activity);
	jmethodID get_resolver = (*env)->GetMethodID(env, activity_class, "getContentResolver", "()Landroid/content/ContentResolver;");
	jobject resolver = (*env)->CallObjectMethod(env, activity, get_resolver);
	if (clearException(env) || resolver == NULL) return QUERY_EXCEPTION;

	jclass uri_class = (*env)->FindClass(env, "android/net/Uri");
	jmethodID parse = (*env)->GetStaticMethodID(env, uri_class, "parse", "(Ljava/lang/String;)Landroid/net/Uri;");
	jstring juri = (*env)->NewStringUTF(env, uri_str);
	jobject uri = (*env)->CallStaticObjectMethod(env, uri_class, parse, juri);
	(*env)->DeleteLocalRef(env, juri);
	if (clearException(env) || uri == NULL) return QUERY_EXCEPTION;

	jclass resolver_class = (*env)->GetObjectClass(env, resolver);
	jmethodID query = (*env)->GetMethodID(env, resolver_class, "query",
		"(Landroid/net/Uri;[Ljava/lang/String;Ljava/lang/String;[Ljava/lang/String;Ljava/lang/String;)Landroid/database/Cursor;");
	jobject cursor = (*env)->CallObjectMethod(env, resolver, query, uri, NULL, NULL, NULL, NULL);
	if (clearException(env)) return QUERY_EXCEPTION;
	if (cursor == NULL) return QUERY_NO_ROWS;

	jclass cursor_class = (*env)->GetObjectClass(env, cursor);
	jmethodID move_to_first = (*env)->GetMethodID(env, cursor_class, "moveToFirst", "()Z");
	jmethodID column_index = (*env)->GetMethodID(env, cursor_class, "getColumnIndex", "(Ljava/lang/String;)I");
	jmethodID get_string = (*env)->GetMethodID(env, cursor_class, "getString", "(I)Ljava/lang/String;");
	jmethodID close = (*env)->GetMethodID(env, cursor_class, "close", "()V");

	int status = QUERY_OK;
	jboolean has_row = (*env)->CallBooleanMethod(env, cursor, move_to_first);
	if (clearException(env)) {
		status = QUERY_EXCEPTION;
	} else if (!has_row) {
		status = QUERY_NO_ROWS;
	} else {
		jstring column = (*env)->NewStringUTF(env, "_data");
		jint idx = (*env)->CallIntMethod(env, cursor, column_index, column);
		(*env)->DeleteLocalRef(env, column);
		if (clearException(env)) {
			status = QUERY_EXCEPTION;
		} else if (idx == -1) {
			status = QUERY_NO_COLUMN;
		} else {
			jstring value = (*env)->CallObjectMethod(env, cursor, get_string, idx);
			if (clearException(env)) {
				status = QUERY_EXCEPTION;
			} else if (value == NULL) {
				status = QUERY_NULL;
			} else {
				const char* utf = (*env)->GetStringUTFChars(env, value, NULL);
				*out = strdup(utf);
				(*env)->ReleaseStringUTFChars(env, value, utf);
			}
		}
	}

	(*env)->CallVoidMethod(env, cursor, close);
	clearException(env);
	return status;
}
*/
import "C"

import (
	"context"
	"errors"
	"net/url"
	"unsafe"
)

// NativeRunner runs fn on a thread attached to the JVM, passing the JNIEnv
// and the current Activity. Fyne's driver.RunNative and gomobile's
// app.RunOnJVM can both be adapted to it.
type NativeRunner func(fn func(env, activity uintptr) error) error

var errContentQuery = errors.New("content query raised an exception")

type jniContentResolver struct {
	run NativeRunner
}

// NewJNIContentResolver answers content: queries through the Activity's
// ContentResolver, reading only the _data column of the first row.
func NewJNIContentResolver(run NativeRunner) ContentResolver {
	return jniContentResolver{run: run}
}

func (r jniContentResolver) Query(_ context.Context, uri *url.URL) (Cursor, error) {
	var cur Cursor
	err := r.run(func(env, activity uintptr) error {
		curi := C.CString(uri.String())
		defer C.free(unsafe.Pointer(curi))

		var out *C.char
		status := C.queryData((*C.JNIEnv)(unsafe.Pointer(env)), C.jobject(unsafe.Pointer(activity)), curi, &out)
		if out != nil {
			defer C.free(unsafe.Pointer(out))
		}

		switch status {
		case C.QUERY_OK:
			v := C.GoString(out)
			cur = &RowCursor{Columns: []string{ColumnData}, Rows: [][]*string{{&v}}}
		case C.QUERY_NULL:
			cur = &RowCursor{Columns: []string{ColumnData}, Rows: [][]*string{{nil}}}
		case C.QUERY_NO_COLUMN:
			cur = &RowCursor{Rows: [][]*string{{}}}
		case C.QUERY_NO_ROWS:
			cur = &RowCursor{Columns: []string{ColumnData}}
		default:
			return errContentQuery
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cur, nil
}

// ReadActivityIntent returns the Activity's current intent.
func ReadActivityIntent(run NativeRunner) (Intent, error) {
	var in Intent
	err := run(func(env, activity uintptr) error {
		var action, data, stream *C.char
		C.readIntent((*C.JNIEnv)(unsafe.Pointer(env)), C.jobject(unsafe.Pointer(activity)), &action, &data, &stream)
		in = NewIntent(takeCString(action), takeCString(data))
		if s := takeCString(stream); s != "" {
			in.Extras = map[string]string{ExtraStream: s}
		}
		return nil
	})
	return in, err
}

func takeCString(s *C.char) string {
	if s == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(s))
	return C.GoString(s)
}
